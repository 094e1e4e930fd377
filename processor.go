package fieldcodec

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Processor is the persistence-layer hook for a record type T.
//
// Store encrypts every field tagged `store.encrypt` exactly once before
// marshaling; Load decrypts every field tagged `load.decrypt` exactly once
// after unmarshaling. Raw unmarshals without decrypting, exposing the wire
// values actually persisted.
//
// Processors are safe for concurrent use. Validation occurs automatically on
// first operation; register every required FieldCodec before then.
type Processor[T Cloner[T]] struct {
	codec Codec

	// Mutable configuration protected by mu
	mu     sync.RWMutex
	fields map[Scheme]*FieldCodec

	// Validation state (runs once on first operation)
	validateOnce sync.Once
	validateErr  error

	// Per-context field plans (immutable after construction)
	loadPlans  loadPlan
	storePlans storePlan

	// Type metadata
	typeName string
}

// NewProcessor creates a new Processor for type T.
//
// Tags are validated here; a tag naming an unknown scheme or placed on an
// unsupported field type fails with ErrInvalidTag.
func NewProcessor[T Cloner[T]](codec Codec) (*Processor[T], error) {
	plans, err := getOrBuildPlans[T]()
	if err != nil {
		return nil, err
	}

	p := &Processor[T]{
		codec:      codec,
		fields:     make(map[Scheme]*FieldCodec),
		typeName:   plans.typeName,
		loadPlans:  plans.load,
		storePlans: plans.store,
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), plans.typeName)
	return p, nil
}

// SetFieldCodec registers fc under its scheme.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor[T]) SetFieldCodec(fc *FieldCodec) *Processor[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fields[fc.Scheme()] = fc
	return p
}

// Validate checks that a FieldCodec is registered for every tagged scheme.
//
// Validation also runs automatically on first operation. Calling Validate
// explicitly allows catching configuration errors at startup.
func (p *Processor[T]) Validate() error {
	return p.ensureValidated()
}

// ensureValidated runs validation once and caches the result.
func (p *Processor[T]) ensureValidated() error {
	p.validateOnce.Do(func() {
		p.mu.RLock()
		defer p.mu.RUnlock()
		p.validateErr = p.validateCapabilities()
	})
	return p.validateErr
}

// validateCapabilities skips checks the type handles through override interfaces.
func (p *Processor[T]) validateCapabilities() error {
	var zero T
	_, hasDecryptable := any(&zero).(Decryptable)
	_, hasEncryptable := any(&zero).(Encryptable)

	if !hasDecryptable {
		for _, plan := range p.loadPlans.decryptFields {
			if _, ok := p.fields[plan.scheme]; !ok {
				return newConfigError(ErrMissingFieldCodec, plan.scheme.String(), plan.name)
			}
		}
	}

	if !hasEncryptable {
		for _, plan := range p.storePlans.encryptFields {
			if _, ok := p.fields[plan.scheme]; !ok {
				return newConfigError(ErrMissingFieldCodec, plan.scheme.String(), plan.name)
			}
		}
	}

	return nil
}

// Store encrypts tagged fields of a clone of obj and marshals the result.
// obj itself is never modified.
func (p *Processor[T]) Store(ctx context.Context, obj *T) ([]byte, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}

	start := time.Now()
	emitStoreStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var retData []byte
	defer func() {
		emitStoreComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start), len(p.storePlans.encryptFields), retErr)
	}()

	if obj == nil {
		retData, retErr = p.marshal(nil)
		return retData, retErr
	}

	sealed, err := p.seal(obj)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	retData, retErr = p.marshal(sealed)
	return retData, retErr
}

// Load unmarshals data and decrypts tagged fields.
// Values that are not wire values (legacy plaintext) load unchanged.
func (p *Processor[T]) Load(ctx context.Context, data []byte) (*T, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}

	start := time.Now()
	emitLoadStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	defer func() {
		emitLoadComplete(ctx, p.codec.ContentType(), p.typeName,
			time.Since(start), len(p.loadPlans.decryptFields), retErr)
	}()

	var obj T
	if err := p.codec.Unmarshal(data, &obj); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	if err := p.unsealInPlace(&obj); err != nil {
		retErr = err
		return nil, retErr
	}

	return &obj, nil
}

// Raw unmarshals data without decrypting anything.
// Tagged fields hold the persisted wire values.
func (p *Processor[T]) Raw(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()

	var obj T
	if err := p.codec.Unmarshal(data, &obj); err != nil {
		err = newCodecError(ErrUnmarshal, err)
		emitRawComplete(ctx, p.codec.ContentType(), p.typeName, time.Since(start), err)
		return nil, err
	}

	emitRawComplete(ctx, p.codec.ContentType(), p.typeName, time.Since(start), nil)
	return &obj, nil
}

// Seal returns a clone of obj with tagged fields encrypted, without
// marshaling. Use it when the persistence driver does its own encoding.
func (p *Processor[T]) Seal(obj *T) (*T, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return p.seal(obj)
}

// Unseal returns a clone of obj with tagged fields decrypted.
func (p *Processor[T]) Unseal(obj *T) (*T, error) {
	if err := p.ensureValidated(); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}

	clone := (*obj).Clone()
	if err := p.unsealInPlace(&clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

func (p *Processor[T]) marshal(v any) ([]byte, error) {
	data, err := p.codec.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// seal clones obj and encrypts the clone.
func (p *Processor[T]) seal(obj *T) (*T, error) {
	// Clone to avoid mutating original
	clone := (*obj).Clone()

	p.mu.RLock()
	defer p.mu.RUnlock()

	// Check for override interface
	if e, ok := any(&clone).(Encryptable); ok {
		if err := e.Encrypt(p.fields); err != nil {
			return nil, fmt.Errorf("encrypt: %w", err)
		}
		return &clone, nil
	}

	if err := p.applyEncrypt(&clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

func (p *Processor[T]) unsealInPlace(obj *T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	// Check for override interface
	if d, ok := any(obj).(Decryptable); ok {
		if err := d.Decrypt(p.fields); err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
		return nil
	}

	p.applyDecrypt(obj)
	return nil
}

// applyEncrypt applies encrypt transformations via reflection.
func (p *Processor[T]) applyEncrypt(obj *T) error {
	rv := reflect.ValueOf(obj).Elem()

	for _, plan := range p.storePlans.encryptFields {
		fc := p.fields[plan.scheme]

		field, ok := p.getField(rv, plan)
		if !ok {
			continue
		}

		// Handle slice of strings
		if plan.isSlice {
			for i := 0; i < field.Len(); i++ {
				elem := field.Index(i)
				if !elem.CanSet() {
					continue
				}
				wire, err := fc.Encrypt(elem.String())
				if err != nil {
					return newTransformError(ErrEncrypt, "encrypt", fmt.Sprintf("%s[%d]", plan.name, i), err)
				}
				elem.SetString(wire)
			}
			continue
		}

		// Handle map of strings
		if plan.isMap {
			iter := field.MapRange()
			for iter.Next() {
				k, v := iter.Key(), iter.Value()
				wire, err := fc.Encrypt(v.String())
				if err != nil {
					return newTransformError(ErrEncrypt, "encrypt", fmt.Sprintf("%s[%v]", plan.name, k.Interface()), err)
				}
				field.SetMapIndex(k, reflect.ValueOf(wire).Convert(field.Type().Elem()))
			}
			continue
		}

		if !field.CanSet() {
			continue
		}

		// Handle *string; nil stays nil
		if plan.isPtr {
			if field.IsNil() {
				continue
			}
			wire, err := fc.Encrypt(field.Elem().String())
			if err != nil {
				return newTransformError(ErrEncrypt, "encrypt", plan.name, err)
			}
			setStringPtr(field, wire)
			continue
		}

		wire, err := fc.Encrypt(field.String())
		if err != nil {
			return newTransformError(ErrEncrypt, "encrypt", plan.name, err)
		}
		field.SetString(wire)
	}

	return nil
}

// applyDecrypt applies decrypt transformations via reflection.
// Decryption never fails; undecryptable values are left as they are.
func (p *Processor[T]) applyDecrypt(obj *T) {
	rv := reflect.ValueOf(obj).Elem()

	for _, plan := range p.loadPlans.decryptFields {
		fc := p.fields[plan.scheme]

		field, ok := p.getField(rv, plan)
		if !ok {
			continue
		}

		// Handle slice of strings
		if plan.isSlice {
			for i := 0; i < field.Len(); i++ {
				elem := field.Index(i)
				if elem.CanSet() {
					elem.SetString(fc.Decrypt(elem.String()))
				}
			}
			continue
		}

		// Handle map of strings
		if plan.isMap {
			iter := field.MapRange()
			for iter.Next() {
				k, v := iter.Key(), iter.Value()
				field.SetMapIndex(k, reflect.ValueOf(fc.Decrypt(v.String())).Convert(field.Type().Elem()))
			}
			continue
		}

		if !field.CanSet() {
			continue
		}

		if plan.isPtr {
			if field.IsNil() {
				continue
			}
			setStringPtr(field, fc.Decrypt(field.Elem().String()))
			continue
		}

		field.SetString(fc.Decrypt(field.String()))
	}
}

// setStringPtr points field at a fresh copy of s, so a shallow Clone never
// shares the transformed value with the original.
func setStringPtr(field reflect.Value, s string) {
	ptr := reflect.New(field.Type().Elem())
	ptr.Elem().SetString(s)
	field.Set(ptr)
}

// getField navigates a field path, dereferencing pointers as needed.
func (p *Processor[T]) getField(rv reflect.Value, plan processorFieldPlan) (reflect.Value, bool) {
	if len(plan.ptrIndices) == 0 {
		return rv.FieldByIndex(plan.index), true
	}

	current := rv
	ptrSet := make(map[int]bool, len(plan.ptrIndices))
	for _, idx := range plan.ptrIndices {
		ptrSet[idx] = true
	}

	for i, idx := range plan.index {
		current = current.Field(idx)

		if ptrSet[i] {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}

	return current, true
}
