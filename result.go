package fieldcodec

// Outcome classifies how a stored value was decoded.
type Outcome int

const (
	// OutcomeEmpty means the input was empty and returned as-is.
	OutcomeEmpty Outcome = iota

	// OutcomeDecrypted means the input was a wire value and decrypted.
	OutcomeDecrypted

	// OutcomePassThrough means the input could not be decrypted and was
	// returned unchanged (legacy plaintext, malformed, or wrong key).
	OutcomePassThrough
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeDecrypted:
		return "decrypted"
	case OutcomePassThrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of decoding one stored value.
type Result struct {
	Value   string  // Plaintext on OutcomeDecrypted, otherwise the input unchanged
	Outcome Outcome // How Value was produced
	Reason  error   // Why decoding fell back; nil unless OutcomePassThrough
}

// Decrypted reports whether Value is genuinely decrypted plaintext.
func (r Result) Decrypted() bool {
	return r.Outcome == OutcomeDecrypted
}
