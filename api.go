// Package fieldcodec provides transparent field-level encryption for
// persisted records.
//
// A FieldCodec turns a plaintext attribute into a self-describing wire value
// on write and back into plaintext on read. The data-access layer never
// touches cryptography; it only calls Encrypt before persisting and Decrypt
// after reading, or lets a Processor do both at the serialization boundary.
//
// # Wire Format
//
// The default scheme is AES-256-CTR with a key of SHA-256(secret):
//
//	<iv_hex>:<ciphertext_hex>
//
// iv_hex is 32 hex characters (a fresh random 16-byte IV per call) and the
// ciphertext has the same byte length as the plaintext. Empty values are
// never encrypted.
//
// # Decrypt Fallback
//
// Decrypt never fails. Any input that is not a wire value this codec can
// decrypt, such as legacy plaintext, a malformed string, or a value written
// under another key, is returned unchanged. This keeps mixed tables of
// encrypted and plaintext rows readable, at the cost of masking corruption.
// Inspect reports which case applied and Open returns it as an error.
//
// # Basic Usage
//
//	fc, err := fieldcodec.New(os.Getenv("FIELDCODEC_SECRET"))
//	if err != nil {
//	    return err
//	}
//
//	wire, err := fc.Encrypt("ana@example.com") // "8f1e...:6dcb..."
//	email := fc.Decrypt(wire)                   // "ana@example.com"
//
// # Processor
//
// A Processor applies the codec to tagged struct fields:
//
//	type User struct {
//	    Name  string `json:"name"`
//	    Email string `json:"email" store.encrypt:"ctr" load.decrypt:"ctr"`
//	}
//
//	func (u User) Clone() User { return u }
//
//	proc, _ := fieldcodec.NewProcessor[User](json.New())
//	proc.SetFieldCodec(fc)
//
//	data, _ := proc.Store(ctx, &user) // email persisted as a wire value
//	user, _ := proc.Load(ctx, data)   // email decrypted
//	raw, _ := proc.Raw(ctx, data)     // email left as the wire value
//
// # Hardening
//
// WithScheme(SchemeGCM) or WithScheme(SchemeXChaCha) switch to an
// authenticated scheme that detects tampering. WithRequireSecret rejects an
// empty secret at construction. Neither is the default.
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package fieldcodec
