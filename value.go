package timings

import (
	"sort"
	"strconv"
)

// entry is one key/value pair of a composite, in production order.
type entry struct {
	key   string
	value any
}

// isComposite reports whether v is one of the composite shapes the engine
// understands.
func isComposite(v any) bool {
	switch v.(type) {
	case *Object, []any, map[string]any:
		return true
	}
	return false
}

// fieldOf looks key up in the field view of data. Objects and maps are
// addressed by key, lists by decimal position. Scalars have no fields.
func fieldOf(data any, key string) (any, bool) {
	switch d := data.(type) {
	case *Object:
		if d == nil {
			return nil, false
		}
		return d.Get(key)
	case map[string]any:
		v, ok := d[key]
		return v, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(d) {
			return nil, false
		}
		return d[i], true
	}
	return nil, false
}

// entriesOf lists the entries of a composite in order. Plain maps carry no
// order of their own and are visited by sorted key. ok is false for scalars
// and nil.
func entriesOf(v any) ([]entry, bool) {
	switch d := v.(type) {
	case *Object:
		if d == nil {
			return nil, false
		}
		out := make([]entry, 0, d.Len())
		for p := d.Oldest(); p != nil; p = p.Next() {
			out = append(out, entry{key: p.Key, value: p.Value})
		}
		return out, true
	case []any:
		out := make([]entry, len(d))
		for i, item := range d {
			out[i] = entry{key: strconv.Itoa(i), value: item}
		}
		return out, true
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]entry, len(keys))
		for i, k := range keys {
			out[i] = entry{key: k, value: d[k]}
		}
		return out, true
	}
	return nil, false
}

// flatten turns an untyped composite into a fresh Object holding the same
// entries. Nested values are passed through as they are.
func flatten(v any) any {
	entries, ok := entriesOf(v)
	if !ok {
		return v
	}
	obj := NewObject()
	for _, e := range entries {
		obj.Set(e.key, e.value)
	}
	return obj
}
