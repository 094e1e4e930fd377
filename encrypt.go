package fieldcodec

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Encryptor is the cipher primitive a FieldCodec drives.
// Nonces are supplied by the caller so that every draw of randomness
// happens in one place.
type Encryptor interface {
	// NonceSize returns the IV/nonce length in bytes.
	NonceSize() int

	// Encrypt encrypts plaintext under nonce and returns ciphertext.
	Encrypt(nonce, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext under nonce and returns plaintext.
	Decrypt(nonce, ciphertext []byte) ([]byte, error)
}

// ctrEncryptor implements AES-CTR stream encryption.
// Output has the same length as input and carries no integrity check.
type ctrEncryptor struct {
	block cipher.Block
}

// CTR returns an AES-CTR encryptor.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func CTR(key []byte) (Encryptor, error) {
	if err := checkAESKey(key); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return &ctrEncryptor{block: block}, nil
}

func (e *ctrEncryptor) NonceSize() int {
	return aes.BlockSize
}

func (e *ctrEncryptor) Encrypt(nonce, plaintext []byte) ([]byte, error) {
	return e.xor(nonce, plaintext)
}

func (e *ctrEncryptor) Decrypt(nonce, ciphertext []byte) ([]byte, error) {
	return e.xor(nonce, ciphertext)
}

func (e *ctrEncryptor) xor(nonce, in []byte) ([]byte, error) {
	// cipher.NewCTR panics on a wrong IV length.
	if len(nonce) != aes.BlockSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrNonceSize, aes.BlockSize, len(nonce))
	}

	out := make([]byte, len(in))
	cipher.NewCTR(e.block, nonce).XORKeyStream(out, in)
	return out, nil
}

// aeadEncryptor adapts a cipher.AEAD to Encryptor.
type aeadEncryptor struct {
	aead cipher.AEAD
}

// GCM returns an AES-GCM encryptor.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func GCM(key []byte) (Encryptor, error) {
	if err := checkAESKey(key); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &aeadEncryptor{aead: gcm}, nil
}

// XChaCha returns an XChaCha20-Poly1305 encryptor.
// Key must be 32 bytes.
func XChaCha(key []byte) (Encryptor, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	return &aeadEncryptor{aead: aead}, nil
}

func (e *aeadEncryptor) NonceSize() int {
	return e.aead.NonceSize()
}

func (e *aeadEncryptor) Encrypt(nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != e.aead.NonceSize() {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrNonceSize, e.aead.NonceSize(), len(nonce))
	}
	return e.aead.Seal(nil, nonce, plaintext, nil), nil
}

func (e *aeadEncryptor) Decrypt(nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != e.aead.NonceSize() {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrNonceSize, e.aead.NonceSize(), len(nonce))
	}
	if len(ciphertext) < e.aead.Overhead() {
		return nil, ErrCiphertextShort
	}

	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

func checkAESKey(key []byte) error {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}
	return nil
}

// newEncryptor builds the encryptor for a scheme.
func newEncryptor(scheme Scheme, key []byte) (Encryptor, error) {
	switch scheme {
	case SchemeCTR:
		return CTR(key)
	case SchemeGCM:
		return GCM(key)
	case SchemeXChaCha:
		return XChaCha(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}
