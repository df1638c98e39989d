package timings

import (
	"encoding/json"
	"iter"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is the value of an array field: entries keyed by their input key
// (or the key a keymapper produced), in production order.
//
// Array fields must be declared as *Mapping[V]. The engine always assigns
// one, empty when the input had nothing to offer.
type Mapping[V any] struct {
	entries *orderedmap.OrderedMap[string, V]
}

// NewMapping returns an empty mapping.
func NewMapping[V any]() *Mapping[V] {
	return &Mapping[V]{entries: orderedmap.New[string, V]()}
}

// Len returns the number of entries. A nil mapping is empty.
func (m *Mapping[V]) Len() int {
	if m == nil || m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// Get returns the entry stored under key.
func (m *Mapping[V]) Get(key string) (V, bool) {
	if m == nil || m.entries == nil {
		var zero V
		return zero, false
	}
	return m.entries.Get(key)
}

// Set stores value under key. An existing key keeps its position.
func (m *Mapping[V]) Set(key string, value V) {
	if m.entries == nil {
		m.entries = orderedmap.New[string, V]()
	}
	m.entries.Set(key, value)
}

// Keys returns the keys in order.
func (m *Mapping[V]) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns the values in order.
func (m *Mapping[V]) Values() []V {
	values := make([]V, 0, m.Len())
	for _, v := range m.All() {
		values = append(values, v)
	}
	return values
}

// All iterates the entries in order.
func (m *Mapping[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil || m.entries == nil {
			return
		}
		for p := m.entries.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// MarshalJSON encodes the mapping as a JSON object in entry order.
func (m *Mapping[V]) MarshalJSON() ([]byte, error) {
	if m == nil || m.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.entries)
}

// MarshalYAML encodes the mapping as a YAML mapping in entry order.
func (m *Mapping[V]) MarshalYAML() (any, error) {
	if m == nil || m.entries == nil {
		return map[string]V{}, nil
	}
	return m.entries, nil
}

// mappingSink is how the engine fills a Mapping[V] without knowing V.
type mappingSink interface {
	Len() int
	elemType() reflect.Type
	reset()
	put(key string, value any) bool
	pairs() []entry
}

var sinkType = reflect.TypeFor[mappingSink]()

func (m *Mapping[V]) elemType() reflect.Type {
	return reflect.TypeFor[V]()
}

func (m *Mapping[V]) reset() {
	m.entries = orderedmap.New[string, V]()
}

// put coerces value to V and stores it. It reports false, storing nothing,
// when the value cannot be represented as V.
func (m *Mapping[V]) put(key string, value any) bool {
	rv, ok := coerce(value, m.elemType())
	if !ok {
		return false
	}
	v, _ := rv.Interface().(V)
	m.Set(key, v)
	return true
}

func (m *Mapping[V]) pairs() []entry {
	out := make([]entry, 0, m.Len())
	for k, v := range m.All() {
		out = append(out, entry{key: k, value: v})
	}
	return out
}
