package fieldcodec

import "crypto/sha256"

// DerivedKeySize is the length of a derived key in bytes.
const DerivedKeySize = sha256.Size

// Key is a derived 256-bit field encryption key.
// It formats as [REDACTED] so it never lands in logs by accident.
type Key [DerivedKeySize]byte

// DeriveKey derives a key from a passphrase as SHA-256(passphrase).
func DeriveKey(secret string) Key {
	return Key(sha256.Sum256([]byte(secret)))
}

func (k Key) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer so %#v is redacted too.
func (k Key) GoString() string {
	return "fieldcodec.Key([REDACTED])"
}
