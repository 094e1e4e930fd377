package fieldcodec

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidKeySize indicates a key of the wrong length for its cipher.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrUnknownScheme indicates an unrecognized encryption scheme.
	ErrUnknownScheme = errors.New("unknown scheme")

	// ErrEmptySecret indicates an empty passphrase when one is required.
	ErrEmptySecret = errors.New("empty secret")

	// ErrEntropy indicates the random source failed to produce an IV.
	// Encrypting without a fresh IV is never attempted; treat as fatal.
	ErrEntropy = errors.New("entropy source failed")

	// ErrPartCount indicates a wire value that does not split into exactly two parts.
	ErrPartCount = errors.New("wire value must have exactly two parts")

	// ErrHexDecode indicates a wire value part that is not valid hex.
	ErrHexDecode = errors.New("wire value is not hex")

	// ErrNonceSize indicates an IV/nonce of the wrong length.
	ErrNonceSize = errors.New("invalid nonce size")

	// ErrCiphertextShort indicates ciphertext shorter than the cipher overhead.
	ErrCiphertextShort = errors.New("ciphertext too short")

	// ErrDecryptionFailed indicates the cipher rejected the ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidUTF8 indicates decrypted bytes that are not valid UTF-8,
	// the usual symptom of a wrong key under an unauthenticated scheme.
	ErrInvalidUTF8 = errors.New("decrypted value is not valid utf-8")

	// ErrMissingFieldCodec indicates a tagged field has no registered FieldCodec.
	ErrMissingFieldCodec = errors.New("missing field codec")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrEncrypt indicates encryption of a field failed.
	ErrEncrypt = errors.New("encrypt failed")
)

// ConfigError represents a processor configuration error.
// It wraps a sentinel error with additional context about the field and scheme.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrMissingFieldCodec, ErrInvalidTag)
	Field  string // Field name that triggered the error
	Scheme string // Scheme that was missing/invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Scheme != "" {
		return fmt.Sprintf("%s for scheme %q (field %s)", e.Err.Error(), e.Scheme, e.Field)
	}
	if e.Scheme != "" {
		return fmt.Sprintf("%s for scheme %q", e.Err.Error(), e.Scheme)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents an error during field transformation.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrEncrypt)
	Field     string // Field name that failed
	Operation string // Operation that failed
	Cause     error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s", e.Operation, e.Field)
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// ErrEncrypt as well as ErrEntropy.
func (e *TransformError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// DecodeError is returned by FieldCodec.Open when a value is not a wire value
// this codec can decrypt.
type DecodeError struct {
	Reason error // ErrPartCount, ErrHexDecode, ErrNonceSize, ErrDecryptionFailed, ErrInvalidUTF8
	Cause  error // Lower-level error, if any
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode: %v", e.Cause)
	}
	return fmt.Sprintf("decode: %s", e.Reason.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.Reason
}

// newConfigError creates a ConfigError for missing codec and tag scenarios.
func newConfigError(sentinel error, scheme, field string) error {
	return &ConfigError{
		Err:    sentinel,
		Scheme: scheme,
		Field:  field,
	}
}

// newTransformError creates a TransformError for field transformation failures.
func newTransformError(sentinel error, operation, field string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
