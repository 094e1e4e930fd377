package fieldcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
)

const (
	testSecret      = "test-passphrase"
	goldenPlaintext = "ana@example.com"
	goldenWire      = "000102030405060708090a0b0c0d0e0f:6dcb42b0c91bed109ccbac8d5b5f87"
)

var goldenIV = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
}

var wireShape = regexp.MustCompile(`^[0-9a-f]{32}:[0-9a-f]+$`)

func newTestCodec(t *testing.T, secret string, opts ...Option) *FieldCodec {
	t.Helper()
	fc, err := New(secret, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return fc
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestFieldCodec_GoldenVector(t *testing.T) {
	fc := newTestCodec(t, testSecret, WithEntropy(bytes.NewReader(goldenIV)))

	wire, err := fc.Encrypt(goldenPlaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if wire != goldenWire {
		t.Errorf("Encrypt() = %q, want %q", wire, goldenWire)
	}

	if got := fc.Decrypt(goldenWire); got != goldenPlaintext {
		t.Errorf("Decrypt() = %q, want %q", got, goldenPlaintext)
	}
}

func TestFieldCodec_Seal(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	wire, err := fc.seal(goldenIV, goldenPlaintext)
	if err != nil {
		t.Fatalf("seal() error: %v", err)
	}
	if wire != goldenWire {
		t.Errorf("seal() = %q, want %q", wire, goldenWire)
	}
}

func TestFieldCodec_RoundTrip(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"ascii", "ana@example.com"},
		{"unicode", "héllo wörld ✓ 日本語 🔐"},
		{"colon", "user:password"},
		{"many colons", "a:b:c:d"},
		{"wire lookalike", goldenWire},
		{"whitespace", "  \t\n"},
		{"long", strings.Repeat("0123456789abcdef", 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := fc.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			if got := fc.Decrypt(wire); got != tt.plaintext {
				t.Errorf("Decrypt(Encrypt(%q)) = %q", tt.plaintext, got)
			}
		})
	}
}

func TestFieldCodec_NonDeterministic(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	w1, _ := fc.Encrypt(goldenPlaintext)
	w2, _ := fc.Encrypt(goldenPlaintext)

	if w1 == w2 {
		t.Error("same plaintext should produce different wire values (random IV)")
	}
	if fc.Decrypt(w1) != goldenPlaintext || fc.Decrypt(w2) != goldenPlaintext {
		t.Error("both wire values should decrypt to the plaintext")
	}
}

func TestFieldCodec_WireShape(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	for _, p := range []string{"a", goldenPlaintext, "héllo ✓", "x:y"} {
		wire, err := fc.Encrypt(p)
		if err != nil {
			t.Fatalf("Encrypt() error: %v", err)
		}

		if !wireShape.MatchString(wire) {
			t.Errorf("Encrypt(%q) = %q, does not match wire shape", p, wire)
		}

		_, ciphertextHex, _ := strings.Cut(wire, ":")
		if len(ciphertextHex)/2 != len([]byte(p)) {
			t.Errorf("ciphertext bytes = %d, want %d", len(ciphertextHex)/2, len([]byte(p)))
		}

		if !fc.IsWireValue(wire) {
			t.Errorf("IsWireValue(%q) = false, want true", wire)
		}
	}
}

func TestFieldCodec_EmptyPassThrough(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	wire, err := fc.Encrypt("")
	if err != nil || wire != "" {
		t.Errorf("Encrypt(\"\") = %q, %v; want \"\", nil", wire, err)
	}
	if got := fc.Decrypt(""); got != "" {
		t.Errorf("Decrypt(\"\") = %q, want \"\"", got)
	}

	res := fc.Inspect("")
	if res.Outcome != OutcomeEmpty || res.Reason != nil {
		t.Errorf("Inspect(\"\") = %+v, want OutcomeEmpty", res)
	}
}

func TestFieldCodec_Nullable(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	enc, err := fc.EncryptNullable(nil)
	if err != nil || enc != nil {
		t.Errorf("EncryptNullable(nil) = %v, %v; want nil, nil", enc, err)
	}
	if got := fc.DecryptNullable(nil); got != nil {
		t.Errorf("DecryptNullable(nil) = %v, want nil", got)
	}

	empty := ""
	enc, err = fc.EncryptNullable(&empty)
	if err != nil || enc == nil || *enc != "" {
		t.Errorf("EncryptNullable(&\"\") = %v, %v; want &\"\"", enc, err)
	}

	p := goldenPlaintext
	enc, err = fc.EncryptNullable(&p)
	if err != nil {
		t.Fatalf("EncryptNullable() error: %v", err)
	}
	if got := fc.DecryptNullable(enc); got == nil || *got != goldenPlaintext {
		t.Errorf("DecryptNullable() = %v, want %q", got, goldenPlaintext)
	}
}

func TestFieldCodec_LegacyFallback(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	tests := []struct {
		name   string
		input  string
		reason error
	}{
		{"no colon", "plain-unencrypted-text", ErrPartCount},
		{"three parts", "a:b:c", ErrPartCount},
		{"url", "https://example.com:8080", ErrPartCount},
		{"colon not hex", "user:password", ErrHexDecode},
		{"odd hex", "000102030405060708090a0b0c0d0e0f:abc", ErrHexDecode},
		{"short iv", "0001:6dcb42b0", ErrNonceSize},
		{"empty iv", ":6dcb42b0", ErrNonceSize},
		{"not utf-8", "000102030405060708090a0b0c0d0e0f:ff", ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fc.Decrypt(tt.input); got != tt.input {
				t.Errorf("Decrypt(%q) = %q, want input unchanged", tt.input, got)
			}

			res := fc.Inspect(tt.input)
			if res.Outcome != OutcomePassThrough {
				t.Errorf("Inspect() outcome = %v, want passthrough", res.Outcome)
			}
			if !errors.Is(res.Reason, tt.reason) {
				t.Errorf("Inspect() reason = %v, want %v", res.Reason, tt.reason)
			}
			if res.Decrypted() {
				t.Error("Decrypted() = true, want false")
			}
		})
	}
}

func TestFieldCodec_EmptyCiphertext(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	// A well-formed IV with no ciphertext decrypts to the empty string.
	res := fc.Inspect("000102030405060708090a0b0c0d0e0f:")
	if res.Outcome != OutcomeDecrypted || res.Value != "" {
		t.Errorf("Inspect() = %+v, want decrypted empty string", res)
	}
}

func TestFieldCodec_UppercaseHex(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	if got := fc.Decrypt(strings.ToUpper(goldenWire)); got != goldenPlaintext {
		t.Errorf("Decrypt(upper) = %q, want %q", got, goldenPlaintext)
	}
}

func TestFieldCodec_WrongKeyIsolation(t *testing.T) {
	k1 := newTestCodec(t, "key-one")
	k2 := newTestCodec(t, "key-two")

	// Long enough that keystream noise is never valid UTF-8 by chance.
	plaintext := strings.Repeat("ana@example.com ", 16)
	wire, err := k1.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	if got := k2.Decrypt(wire); got != wire {
		t.Errorf("Decrypt() under wrong key = %q, want wire value unchanged", got)
	}

	res := k2.Inspect(wire)
	if res.Outcome != OutcomePassThrough || !errors.Is(res.Reason, ErrInvalidUTF8) {
		t.Errorf("Inspect() = %+v, want passthrough with ErrInvalidUTF8", res)
	}

	if got := k1.Decrypt(wire); got != plaintext {
		t.Error("Decrypt() under the right key should still succeed")
	}
}

func TestFieldCodec_EmptySecret(t *testing.T) {
	fc, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error: %v", err)
	}

	wire, _ := fc.Encrypt("hello")
	if fc.Decrypt(wire) != "hello" {
		t.Error("empty secret should still round-trip")
	}

	if _, err := New("", WithRequireSecret()); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("New(\"\", WithRequireSecret()) error = %v, want ErrEmptySecret", err)
	}
	if _, err := New(testSecret, WithRequireSecret()); err != nil {
		t.Errorf("New(secret, WithRequireSecret()) error: %v", err)
	}
}

func TestFieldCodec_UnknownScheme(t *testing.T) {
	_, err := New(testSecret, WithScheme("rot13"))
	if !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("New() error = %v, want ErrUnknownScheme", err)
	}
}

func TestFieldCodec_EntropyFailure(t *testing.T) {
	tests := []struct {
		name   string
		reader io.Reader
	}{
		{"failing", failingReader{}},
		{"short", bytes.NewReader([]byte{0x01, 0x02})},
		{"exhausted", bytes.NewReader(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newTestCodec(t, testSecret, WithEntropy(tt.reader))

			wire, err := fc.Encrypt(goldenPlaintext)
			if !errors.Is(err, ErrEntropy) {
				t.Errorf("Encrypt() error = %v, want ErrEntropy", err)
			}
			if wire != "" {
				t.Errorf("Encrypt() = %q, want no output on entropy failure", wire)
			}
		})
	}
}

func TestFieldCodec_Open(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	got, err := fc.Open(goldenWire)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if got != goldenPlaintext {
		t.Errorf("Open() = %q, want %q", got, goldenPlaintext)
	}

	if got, err := fc.Open(""); err != nil || got != "" {
		t.Errorf("Open(\"\") = %q, %v; want \"\", nil", got, err)
	}

	_, err = fc.Open("plain-unencrypted-text")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Open() error = %T, want *DecodeError", err)
	}
	if !errors.Is(err, ErrPartCount) {
		t.Errorf("Open() error = %v, want ErrPartCount", err)
	}

	_, err = fc.Open("user:password")
	if !errors.Is(err, ErrHexDecode) {
		t.Errorf("Open() error = %v, want ErrHexDecode", err)
	}
}

func TestFieldCodec_AuthenticatedSchemes(t *testing.T) {
	tests := []struct {
		scheme   Scheme
		ivHexLen int
	}{
		{SchemeGCM, 24},
		{SchemeXChaCha, 48},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			fc := newTestCodec(t, testSecret, WithScheme(tt.scheme))
			if fc.Scheme() != tt.scheme {
				t.Errorf("Scheme() = %q, want %q", fc.Scheme(), tt.scheme)
			}

			wire, err := fc.Encrypt(goldenPlaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}

			iv, _, _ := strings.Cut(wire, ":")
			if len(iv) != tt.ivHexLen {
				t.Errorf("iv hex length = %d, want %d", len(iv), tt.ivHexLen)
			}
			if !fc.IsWireValue(wire) {
				t.Errorf("IsWireValue(%q) = false", wire)
			}

			if got := fc.Decrypt(wire); got != goldenPlaintext {
				t.Errorf("Decrypt() = %q, want %q", got, goldenPlaintext)
			}

			// Flip the last ciphertext nibble.
			last := wire[len(wire)-1]
			flipped := byte('0')
			if last == '0' {
				flipped = '1'
			}
			tampered := wire[:len(wire)-1] + string(flipped)

			if got := fc.Decrypt(tampered); got != tampered {
				t.Errorf("Decrypt(tampered) = %q, want input unchanged", got)
			}
			if _, err := fc.Open(tampered); !errors.Is(err, ErrDecryptionFailed) {
				t.Errorf("Open(tampered) error = %v, want ErrDecryptionFailed", err)
			}

			// CTR wire values carry a 16-byte IV.
			if res := fc.Inspect(goldenWire); !errors.Is(res.Reason, ErrNonceSize) {
				t.Errorf("Inspect(ctr wire) reason = %v, want ErrNonceSize", res.Reason)
			}
		})
	}
}

func TestFieldCodec_IsWireValue(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	tests := []struct {
		input string
		want  bool
	}{
		{goldenWire, true},
		{"000102030405060708090a0b0c0d0e0f:", true},
		{strings.ToUpper(goldenWire), false},
		{"plain-unencrypted-text", false},
		{"0001:6dcb", false},
		{goldenWire + ":00", false},
		{"000102030405060708090a0b0c0d0e0f:abc", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := fc.IsWireValue(tt.input); got != tt.want {
			t.Errorf("IsWireValue(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFieldCodec_Concurrent(t *testing.T) {
	fc := newTestCodec(t, testSecret)

	var wg sync.WaitGroup
	errs := make(chan string, 64)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plaintext := strings.Repeat("x", i+1)
			wire, err := fc.Encrypt(plaintext)
			if err != nil {
				errs <- err.Error()
				return
			}
			if got := fc.Decrypt(wire); got != plaintext {
				errs <- fmt.Sprintf("round-trip mismatch for length %d", len(plaintext))
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{OutcomeEmpty, "empty"},
		{OutcomeDecrypted, "decrypted"},
		{OutcomePassThrough, "passthrough"},
		{Outcome(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.o, got, tt.want)
		}
	}
}
