package fieldcodec

// Override interfaces allow types to bypass reflection-based processing.
// When a type implements one of these interfaces, the Processor calls the
// interface method instead of walking tagged fields.
//
// These interfaces are designed for codegen: a generator can emit these
// methods from struct tags, avoiding reflection on hot paths.

// Encryptable bypasses reflection for store.encrypt actions.
type Encryptable interface {
	// Encrypt transforms the receiver's fields that require encryption.
	// The codecs map contains every registered FieldCodec keyed by scheme.
	// The receiver is a clone, so mutations are safe.
	Encrypt(codecs map[Scheme]*FieldCodec) error
}

// Decryptable bypasses reflection for load.decrypt actions.
type Decryptable interface {
	// Decrypt transforms the receiver's fields that require decryption.
	// The codecs map contains every registered FieldCodec keyed by scheme.
	// Called on freshly unmarshaled data.
	Decrypt(codecs map[Scheme]*FieldCodec) error
}
