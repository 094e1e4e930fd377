package fieldcodec

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

// Compound tags recognized on struct fields.
const (
	tagStoreEncrypt = "store.encrypt"
	tagLoadDecrypt  = "load.decrypt"
)

func init() {
	// Register compound tags with sentinel
	sentinel.Tag(tagStoreEncrypt)
	sentinel.Tag(tagLoadDecrypt)
}

// typeFieldPlans holds every field plan for one type.
type typeFieldPlans struct {
	typeName string
	load     loadPlan
	store    storePlan
}

// loadPlan holds field plans for load context actions.
type loadPlan struct {
	decryptFields []processorFieldPlan
}

// storePlan holds field plans for store context actions.
type storePlan struct {
	encryptFields []processorFieldPlan
}

// processorFieldPlan describes how to transform a single field.
type processorFieldPlan struct {
	index      []int  // reflect.Value.FieldByIndex access path
	name       string // field name for error messages
	scheme     Scheme // tag value
	ptrIndices []int  // indices where pointer dereference is needed
	isPtr      bool   // true if field is *string
	isSlice    bool   // true if field is []string
	isMap      bool   // true if field is map[K]string
}

// planCache holds built plans keyed by reflect.Type.
var planCache sync.Map

// getOrBuildPlans returns cached field plans for T, building them on first use.
func getOrBuildPlans[T Cloner[T]]() (*typeFieldPlans, error) {
	typ := reflect.TypeFor[T]()
	if cached, ok := planCache.Load(typ); ok {
		return cached.(*typeFieldPlans), nil
	}

	plans, err := buildFieldPlans[T]()
	if err != nil {
		return nil, err
	}

	actual, _ := planCache.LoadOrStore(typ, plans)
	return actual.(*typeFieldPlans), nil
}

// buildFieldPlans creates field plans for type T by scanning struct tags.
func buildFieldPlans[T Cloner[T]]() (*typeFieldPlans, error) {
	spec := sentinel.Scan[T]()
	plans := &typeFieldPlans{
		typeName: spec.TypeName,
	}

	seen := map[reflect.Type]bool{reflect.TypeFor[T](): true}
	if err := buildFieldPlansRecursive(plans, spec, nil, nil, "", seen); err != nil {
		return nil, err
	}

	return plans, nil
}

// buildFieldPlansRecursive recursively processes fields and nested structs.
// seen guards against self-referential types.
func buildFieldPlansRecursive(plans *typeFieldPlans, spec sentinel.Metadata, parentIndex, ptrIndices []int, namePrefix string, seen map[reflect.Type]bool) error {
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if namePrefix != "" {
			fullName = namePrefix + "." + field.Name
		}

		rt := field.ReflectType

		// Handle nested structs
		if rt.Kind() == reflect.Struct {
			if nestedSpec := scanNestedType(rt); nestedSpec != nil && !seen[rt] {
				seen[rt] = true
				err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, ptrIndices, fullName, seen)
				delete(seen, rt)
				if err != nil {
					return err
				}
			}
			continue
		}

		// Handle pointer to struct
		if rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.Struct {
			if nestedSpec := scanNestedType(rt.Elem()); nestedSpec != nil && !seen[rt.Elem()] {
				seen[rt.Elem()] = true
				newPtrIndices := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
				err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, newPtrIndices, fullName, seen)
				delete(seen, rt.Elem())
				if err != nil {
					return err
				}
			}
			continue
		}

		isString := rt.Kind() == reflect.String
		isStringPtr := rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.String
		isStringSlice := rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.String
		isStringMap := rt.Kind() == reflect.Map && rt.Elem().Kind() == reflect.String

		encVal, hasEnc := field.Tags[tagStoreEncrypt]
		decVal, hasDec := field.Tags[tagLoadDecrypt]
		if !hasEnc && !hasDec {
			continue
		}

		if !isString && !isStringPtr && !isStringSlice && !isStringMap {
			return newConfigError(fmt.Errorf("%w: unsupported field type %s", ErrInvalidTag, rt), "", fullName)
		}

		basePlan := processorFieldPlan{
			index:      fullIndex,
			name:       fullName,
			ptrIndices: ptrIndices,
			isPtr:      isStringPtr,
			isSlice:    isStringSlice,
			isMap:      isStringMap,
		}

		if hasDec {
			if !IsValidScheme(Scheme(decVal)) {
				return newConfigError(ErrInvalidTag, decVal, fullName)
			}
			plan := basePlan
			plan.scheme = Scheme(decVal)
			plans.load.decryptFields = append(plans.load.decryptFields, plan)
		}

		if hasEnc {
			if !IsValidScheme(Scheme(encVal)) {
				return newConfigError(ErrInvalidTag, encVal, fullName)
			}
			plan := basePlan
			plan.scheme = Scheme(encVal)
			plans.store.encryptFields = append(plans.store.encryptFields, plan)
		}
	}

	return nil
}

// scanNestedType scans a nested struct type and returns its metadata.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	if rt.Kind() != reflect.Struct {
		return nil
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseContextTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}

// parseContextTags extracts context.action tags from a struct tag.
func parseContextTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, ca := range []string{tagStoreEncrypt, tagLoadDecrypt} {
		if val, ok := tag.Lookup(ca); ok {
			tags[ca] = val
		}
	}
	return tags
}
