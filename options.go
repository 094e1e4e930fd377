package fieldcodec

import "io"

// Option configures a FieldCodec.
type Option func(*options)

type options struct {
	scheme        Scheme
	entropy       io.Reader
	requireSecret bool
}

// WithScheme selects the encryption scheme. Defaults to SchemeCTR.
func WithScheme(s Scheme) Option {
	return func(o *options) {
		o.scheme = s
	}
}

// WithEntropy replaces the IV source. Defaults to crypto/rand.Reader.
// The reader must be safe for concurrent use if the codec is shared.
func WithEntropy(r io.Reader) Option {
	return func(o *options) {
		o.entropy = r
	}
}

// WithRequireSecret makes construction fail with ErrEmptySecret when the
// secret is empty. Without it an empty secret is accepted.
func WithRequireSecret() Option {
	return func(o *options) {
		o.requireSecret = true
	}
}
