package timings

import (
	"reflect"

	"github.com/spf13/cast"
)

// coerce converts a materialized value to t. Values already assignable are
// used as they are; scalars are converted with cast; lists become slices
// element by element. It reports false when no conversion applies, leaving
// the decision to skip to the caller.
func coerce(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		return reflect.Zero(t), true
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, true
	}

	// A nested *T materialized into a T field.
	if rv.Kind() == reflect.Pointer && rv.Type().Elem().AssignableTo(t) {
		if rv.IsNil() {
			return reflect.Zero(t), true
		}
		return rv.Elem(), true
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(v)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetString(s)
	case reflect.Bool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(v)
		if err != nil || out.OverflowInt(n) {
			return reflect.Value{}, false
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(v)
		if err != nil || out.OverflowUint(n) {
			return reflect.Value{}, false
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(v)
		if err != nil || out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	case reflect.Slice:
		entries, ok := entriesOf(v)
		if !ok {
			return reflect.Value{}, false
		}
		s := reflect.MakeSlice(t, 0, len(entries))
		for _, e := range entries {
			ev, ok := coerce(e.value, t.Elem())
			if !ok {
				return reflect.Value{}, false
			}
			s = reflect.Append(s, ev)
		}
		return s, true
	case reflect.Pointer:
		ev, ok := coerce(v, t.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(ev)
		return p, true
	default:
		return reflect.Value{}, false
	}
	return out, true
}
