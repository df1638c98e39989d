package timings

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

// Index sentinels.
const (
	// SourceKey sources a field from the key its enclosing entry is stored under.
	SourceKey = "@key"

	// SourceValue sources a field from the whole raw value being materialized.
	SourceValue = "@value"

	// sourceSkip excludes a field from materialization.
	sourceSkip = "-"
)

// Struct tags understood by the engine.
const (
	tagIndex     = "index"
	tagType      = "type"
	tagMapper    = "mapper"
	tagFilter    = "filter"
	tagKeyMapper = "keymapper"
	tagJSON      = "json"
)

func init() {
	sentinel.Tag(tagIndex)
	sentinel.Tag(tagType)
	sentinel.Tag(tagMapper)
	sentinel.Tag(tagFilter)
	sentinel.Tag(tagKeyMapper)
}

// Directive is the resolved metadata of one field: where its value comes from
// and how it is transformed. It is derived once per field and never changes.
type Directive struct {
	Field     string // Go field name
	Source    string // Source key, @key, @value or a Resolver reference
	Array     bool   // Field is a *Mapping and always receives one
	Type      string // Registered name of the nested type, if any
	Mapper    string // Mapper reference run before nested materialization
	Filter    string // Mapper reference run last
	KeyMapper string // KeyMapper reference for array entries
}

// fieldPlan binds a directive to the reflect access path of its field.
type fieldPlan struct {
	directive Directive
	index     []int        // reflect.Value.FieldByIndex access path
	typ       reflect.Type // declared field type
	elem      reflect.Type // struct type a nested value may be created as, nil if none
}

// resolveDirective translates one field's declaration into a plan. It is
// pure: absent metadata yields the defaults (source = json name or field
// name, not an array, no nested type, no callbacks). skip is true for fields
// excluded with index:"-".
func resolveDirective(typeName string, fm sentinel.FieldMetadata, sf reflect.StructField) (plan fieldPlan, skip bool, err error) {
	tag := func(name string) string {
		if v, ok := fm.Tags[name]; ok {
			return v
		}
		return sf.Tag.Get(name)
	}

	d := Directive{
		Field:     sf.Name,
		Source:    tag(tagIndex),
		Type:      tag(tagType),
		Mapper:    tag(tagMapper),
		Filter:    tag(tagFilter),
		KeyMapper: tag(tagKeyMapper),
	}

	if d.Source == sourceSkip {
		return fieldPlan{}, true, nil
	}
	if d.Source == "" {
		d.Source = jsonName(sf)
	}

	ft := sf.Type
	plan = fieldPlan{index: sf.Index, typ: ft}

	switch {
	case ft.Implements(sinkType):
		d.Array = true
		sink, _ := reflect.New(ft.Elem()).Interface().(mappingSink)
		plan.elem = structOf(sink.elemType())
	case reflect.PointerTo(ft).Implements(sinkType):
		return fieldPlan{}, false, newConfigError(ErrInvalidTag, typeName, sf.Name, "mappings must be declared as pointers")
	default:
		plan.elem = structOf(ft)
	}

	if isCallbackRef(d.Source) && !validRef(d.Source) {
		return fieldPlan{}, false, newConfigError(ErrInvalidTag, typeName, sf.Name, d.Source)
	}
	for _, ref := range []string{d.Mapper, d.Filter, d.KeyMapper} {
		if ref != "" && !validRef(ref) {
			return fieldPlan{}, false, newConfigError(ErrInvalidTag, typeName, sf.Name, ref)
		}
	}
	if d.KeyMapper != "" && !d.Array {
		return fieldPlan{}, false, newConfigError(ErrInvalidTag, typeName, sf.Name, "keymapper requires a mapping field")
	}

	plan.directive = d
	return plan, false, nil
}

// jsonName returns the json tag name of a field, falling back to its Go name.
func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get(tagJSON), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

// structOf returns the struct type behind t (through one pointer), or nil.
func structOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
