package fieldcodec

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for field codec events.
var (
	SignalCodecCreated     = capitan.NewSignal("fieldcodec.codec.created", "Field codec instantiated")
	SignalPassThrough      = capitan.NewSignal("fieldcodec.field.passthrough", "Stored value returned undecrypted")
	SignalEntropyFailure   = capitan.NewSignal("fieldcodec.field.entropy_failure", "IV could not be drawn")
	SignalProcessorCreated = capitan.NewSignal("fieldcodec.processor.created", "Processor instantiated")
	SignalStoreStart       = capitan.NewSignal("fieldcodec.store.start", "Store operation beginning")
	SignalStoreComplete    = capitan.NewSignal("fieldcodec.store.complete", "Store operation finished")
	SignalLoadStart        = capitan.NewSignal("fieldcodec.load.start", "Load operation beginning")
	SignalLoadComplete     = capitan.NewSignal("fieldcodec.load.complete", "Load operation finished")
	SignalRawComplete      = capitan.NewSignal("fieldcodec.raw.complete", "Raw load finished")
)

// Keys for typed event data.
// Plaintext and key material are never attached to events.
var (
	KeyScheme         = capitan.NewStringKey("scheme")
	KeyReason         = capitan.NewStringKey("reason")
	KeyContentType    = capitan.NewStringKey("content_type")
	KeyTypeName       = capitan.NewStringKey("type_name")
	KeySize           = capitan.NewIntKey("size")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
	KeyEncryptedCount = capitan.NewIntKey("encrypted_count")
	KeyDecryptedCount = capitan.NewIntKey("decrypted_count")
)

func emitCodecCreated(ctx context.Context, scheme Scheme) {
	capitan.Emit(ctx, SignalCodecCreated,
		KeyScheme.Field(scheme.String()),
	)
}

// emitPassThrough emits an event when a stored value falls back to pass-through.
// A steady stream of these on a fully migrated table usually means corruption
// or a wrong key.
func emitPassThrough(ctx context.Context, scheme Scheme, reason error) {
	capitan.Emit(ctx, SignalPassThrough,
		KeyScheme.Field(scheme.String()),
		KeyReason.Field(reason.Error()),
	)
}

func emitEntropyFailure(ctx context.Context, scheme Scheme, err error) {
	capitan.Error(ctx, SignalEntropyFailure,
		KeyScheme.Field(scheme.String()),
		KeyError.Field(err),
	)
}

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitStoreStart emits an event when store begins.
func emitStoreStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalStoreStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitStoreComplete emits an event when store finishes.
func emitStoreComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, encrypted int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyEncryptedCount.Field(encrypted),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStoreComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalStoreComplete, fields...)
	}
}

// emitLoadStart emits an event when load begins.
func emitLoadStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalLoadStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitLoadComplete emits an event when load finishes.
func emitLoadComplete(ctx context.Context, contentType, typeName string, duration time.Duration, decrypted int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyDecryptedCount.Field(decrypted),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

func emitRawComplete(ctx context.Context, contentType, typeName string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRawComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRawComplete, fields...)
	}
}
