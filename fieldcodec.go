package fieldcodec

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// wireSeparator splits the hex IV from the hex ciphertext in a wire value.
const wireSeparator = ":"

// FieldCodec encrypts single attribute values into self-describing wire
// values and decrypts them back.
//
// A FieldCodec holds a key derived once at construction and is immutable
// afterwards, so it is safe for concurrent use without locking.
type FieldCodec struct {
	scheme  Scheme
	enc     Encryptor
	entropy io.Reader
}

// New derives a key from secret and returns a FieldCodec.
//
// An empty secret is accepted unless WithRequireSecret is given; values
// written under another key then fall back to pass-through on Decrypt.
func New(secret string, opts ...Option) (*FieldCodec, error) {
	o := options{
		scheme:  DefaultScheme,
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.requireSecret && secret == "" {
		return nil, ErrEmptySecret
	}
	if !IsValidScheme(o.scheme) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, o.scheme)
	}
	if o.entropy == nil {
		o.entropy = rand.Reader
	}

	key := DeriveKey(secret)
	enc, err := newEncryptor(o.scheme, key[:])
	if err != nil {
		return nil, err
	}

	c := &FieldCodec{
		scheme:  o.scheme,
		enc:     enc,
		entropy: o.entropy,
	}

	emitCodecCreated(context.Background(), o.scheme)
	return c, nil
}

// Scheme returns the encryption scheme in use.
func (c *FieldCodec) Scheme() Scheme {
	return c.scheme
}

// Encrypt returns the wire value for plaintext: hex(iv) + ":" + hex(ciphertext).
// An empty plaintext is returned unchanged.
//
// A fresh IV is drawn on every call, so encrypting the same plaintext twice
// yields different wire values. The only error is a failing entropy source,
// which wraps ErrEntropy and should be treated as fatal.
func (c *FieldCodec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, c.enc.NonceSize())
	if _, err := io.ReadFull(c.entropy, nonce); err != nil {
		err = fmt.Errorf("%w: %w", ErrEntropy, err)
		emitEntropyFailure(context.Background(), c.scheme, err)
		return "", err
	}

	return c.seal(nonce, plaintext)
}

// seal encrypts plaintext under a caller-supplied nonce.
func (c *FieldCodec) seal(nonce []byte, plaintext string) (string, error) {
	ciphertext, err := c.enc.Encrypt(nonce, []byte(plaintext))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(2*len(nonce) + len(wireSeparator) + 2*len(ciphertext))
	b.WriteString(hex.EncodeToString(nonce))
	b.WriteString(wireSeparator)
	b.WriteString(hex.EncodeToString(ciphertext))
	return b.String(), nil
}

// Decrypt returns the plaintext for a wire value.
//
// Anything that is not a wire value this codec can decrypt (legacy
// plaintext, a malformed string, a value written under another key) is
// returned unchanged. Decrypt never fails; use Inspect to tell a real
// decryption from a fallback, or Open to get the error.
func (c *FieldCodec) Decrypt(wire string) string {
	return c.Inspect(wire).Value
}

// Inspect decodes a stored value and reports how the result was produced.
func (c *FieldCodec) Inspect(wire string) Result {
	if wire == "" {
		return Result{Value: wire, Outcome: OutcomeEmpty}
	}

	plaintext, err := c.open(wire)
	if err != nil {
		emitPassThrough(context.Background(), c.scheme, err.Reason)
		return Result{Value: wire, Outcome: OutcomePassThrough, Reason: err.Reason}
	}

	return Result{Value: plaintext, Outcome: OutcomeDecrypted}
}

// Open is the strict form of Decrypt: it returns a *DecodeError instead of
// passing the input through. An empty input yields an empty result.
func (c *FieldCodec) Open(wire string) (string, error) {
	if wire == "" {
		return wire, nil
	}

	plaintext, err := c.open(wire)
	if err != nil {
		return "", err
	}
	return plaintext, nil
}

func (c *FieldCodec) open(wire string) (string, *DecodeError) {
	parts := strings.Split(wire, wireSeparator)
	if len(parts) != 2 {
		return "", &DecodeError{Reason: ErrPartCount}
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", &DecodeError{Reason: ErrHexDecode, Cause: err}
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", &DecodeError{Reason: ErrHexDecode, Cause: err}
	}

	if len(nonce) != c.enc.NonceSize() {
		return "", &DecodeError{Reason: ErrNonceSize}
	}

	plaintext, err := c.enc.Decrypt(nonce, ciphertext)
	if err != nil {
		reason := ErrDecryptionFailed
		if errors.Is(err, ErrCiphertextShort) {
			reason = ErrCiphertextShort
		}
		return "", &DecodeError{Reason: reason, Cause: err}
	}

	// Under CTR a wrong key decrypts to keystream noise rather than failing.
	if !utf8.Valid(plaintext) {
		return "", &DecodeError{Reason: ErrInvalidUTF8}
	}

	return string(plaintext), nil
}

// EncryptNullable is Encrypt for optional values: nil stays nil.
func (c *FieldCodec) EncryptNullable(plaintext *string) (*string, error) {
	if plaintext == nil {
		return nil, nil
	}

	wire, err := c.Encrypt(*plaintext)
	if err != nil {
		return nil, err
	}
	return &wire, nil
}

// DecryptNullable is Decrypt for optional values: nil stays nil.
func (c *FieldCodec) DecryptNullable(wire *string) *string {
	if wire == nil {
		return nil
	}

	plaintext := c.Decrypt(*wire)
	return &plaintext
}

// IsWireValue reports whether s has the shape of a wire value for this
// codec's scheme. It does not attempt decryption.
func (c *FieldCodec) IsWireValue(s string) bool {
	iv, ciphertext, ok := strings.Cut(s, wireSeparator)
	if !ok || strings.Contains(ciphertext, wireSeparator) {
		return false
	}
	if len(iv) != 2*c.enc.NonceSize() || len(ciphertext)%2 != 0 {
		return false
	}
	return isLowerHex(iv) && isLowerHex(ciphertext)
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return false
		}
	}
	return true
}
