package fieldcodec

// Scheme represents a supported field encryption scheme.
// Use these constants in struct tags: `store.encrypt:"ctr"`
type Scheme string

const (
	// SchemeCTR uses AES-256-CTR with a random 16-byte IV.
	// Unauthenticated; this is the default wire format.
	SchemeCTR Scheme = "ctr"

	// SchemeGCM uses AES-256-GCM with a random 12-byte nonce.
	// Authenticated; opt-in hardening.
	SchemeGCM Scheme = "gcm"

	// SchemeXChaCha uses XChaCha20-Poly1305 with a random 24-byte nonce.
	// Authenticated; opt-in hardening.
	SchemeXChaCha Scheme = "xchacha"
)

// DefaultScheme is the scheme used when none is configured.
const DefaultScheme = SchemeCTR

// validSchemes contains all valid schemes for tag validation.
var validSchemes = map[Scheme]bool{
	SchemeCTR:     true,
	SchemeGCM:     true,
	SchemeXChaCha: true,
}

// IsValidScheme returns true if the scheme is a known encryption scheme.
func IsValidScheme(s Scheme) bool {
	return validSchemes[s]
}

// Authenticated reports whether the scheme detects tampering.
func (s Scheme) Authenticated() bool {
	return s == SchemeGCM || s == SchemeXChaCha
}

func (s Scheme) String() string {
	return string(s)
}
