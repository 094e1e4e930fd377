package fieldcodec

// Codec provides content-type aware marshaling for a Processor.
// Implementations live in the json, xml, yaml, msgpack, and bson subpackages.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
