package timings

import "strings"

// refSeparator splits "Type::method" references.
const refSeparator = "::"

// Mapper replaces or post-processes a value. It serves as class mapper,
// field mapper and filter; parent is the context of the value's field.
type Mapper func(raw any, parent *Context) (any, error)

// KeyMapper computes the key an array entry is stored under. value is the
// materialized entry and parent the context of the array field.
type KeyMapper func(key string, value any, parent *Context) (string, error)

// Resolver computes a field value when its index is a callback reference.
// owner is the instance being populated, raw the data it is populated from
// and parent the context the instance was created under.
type Resolver func(owner any, raw any, parent *Context) (any, error)

// CallbackKind identifies one of the callback tables.
type CallbackKind string

const (
	// KindMapper is the table of Mapper callbacks (mappers and filters).
	KindMapper CallbackKind = "mapper"

	// KindKeyMapper is the table of KeyMapper callbacks.
	KindKeyMapper CallbackKind = "keymapper"

	// KindResolver is the table of Resolver callbacks.
	KindResolver CallbackKind = "resolver"
)

// callbacks holds named callback handles. It is written during startup and
// read-only once the registry is sealed.
type callbacks struct {
	mappers    map[string]Mapper
	keyMappers map[string]KeyMapper
	resolvers  map[string]Resolver
}

func newCallbacks() *callbacks {
	return &callbacks{
		mappers:    builtinMappers(),
		keyMappers: make(map[string]KeyMapper),
		resolvers:  make(map[string]Resolver),
	}
}

// candidates lists the qualified names a reference may resolve to, in
// lookup order. Bare references try the owning type before the global scope.
func candidates(ref, owner string) []string {
	if strings.Contains(ref, refSeparator) || owner == "" {
		return []string{ref}
	}
	return []string{owner + refSeparator + ref, ref}
}

func (c *callbacks) mapper(ref, owner string) (Mapper, bool) {
	for _, name := range candidates(ref, owner) {
		if fn, ok := c.mappers[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

func (c *callbacks) keyMapper(ref, owner string) (KeyMapper, bool) {
	for _, name := range candidates(ref, owner) {
		if fn, ok := c.keyMappers[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

func (c *callbacks) resolver(ref, owner string) (Resolver, bool) {
	for _, name := range candidates(ref, owner) {
		if fn, ok := c.resolvers[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// has reports whether ref resolves in the table of the given kind.
func (c *callbacks) has(kind CallbackKind, ref, owner string) bool {
	var ok bool
	switch kind {
	case KindMapper:
		_, ok = c.mapper(ref, owner)
	case KindKeyMapper:
		_, ok = c.keyMapper(ref, owner)
	case KindResolver:
		_, ok = c.resolver(ref, owner)
	}
	return ok
}

// isCallbackRef reports whether an index names a callback.
func isCallbackRef(index string) bool {
	return strings.Contains(index, refSeparator)
}

// validRef checks reference syntax: a bare name, or exactly one separator
// with non-empty type and method on either side.
func validRef(ref string) bool {
	if ref == "" {
		return false
	}
	parts := strings.Split(ref, refSeparator)
	switch len(parts) {
	case 1:
		return true
	case 2:
		return parts[0] != "" && parts[1] != ""
	default:
		return false
	}
}
