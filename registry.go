package timings

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/zoobzio/sentinel"
)

// Policy decides whether materialization allocates or refreshes.
type Policy int

const (
	// OncePerCall allocates a fresh instance on every Create.
	OncePerCall Policy = iota

	// ProcessWideSingleton re-populates one shared instance on every Create.
	ProcessWideSingleton
)

func (p Policy) String() string {
	switch p {
	case OncePerCall:
		return "once-per-call"
	case ProcessWideSingleton:
		return "process-wide-singleton"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// descriptor is everything the engine knows about a registered type.
// Immutable after registration, apart from the lazily created shared
// instance of singleton types.
type descriptor struct {
	name   string
	typ    reflect.Type // struct type
	tag    int
	policy Policy
	mapper string
	fields []fieldPlan

	sharedOnce sync.Once
	shared     reflect.Value // *T, singleton types only
}

// instance returns the value to populate: the shared one for singletons,
// a fresh *T otherwise.
func (d *descriptor) instance() reflect.Value {
	if d.policy != ProcessWideSingleton {
		return reflect.New(d.typ)
	}
	d.sharedOnce.Do(func() {
		d.shared = reflect.New(d.typ)
	})
	return d.shared
}

// Entry is a registered type in a Registry snapshot.
type Entry struct {
	Name   string
	Type   reflect.Type
	Tag    int
	Policy Policy
}

// Registry is the table of materializable types, their class tags and the
// callbacks their metadata references. Build it once at startup, then hand
// it to New. It is sealed by the first materialization (or an explicit Seal)
// and read-only afterwards.
type Registry struct {
	mu        sync.RWMutex
	byType    map[reflect.Type]*descriptor
	byName    map[string]*descriptor
	byTag     map[int]*descriptor
	callbacks *callbacks
	lenient   bool
	sealed    bool

	sealOnce sync.Once
	sealErr  error
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLenientCallbacks defers callback resolution to materialization time.
// Unresolved references then contribute nothing instead of failing
// registration, and unknown nested type names fall back to flattening.
func WithLenientCallbacks() RegistryOption {
	return func(r *Registry) {
		r.lenient = true
	}
}

// NewRegistry creates an empty registry holding the builtin filters.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byType:    make(map[reflect.Type]*descriptor),
		byName:    make(map[string]*descriptor),
		byTag:     make(map[int]*descriptor),
		callbacks: newCallbacks(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mapper registers a Mapper callback under name.
func (r *Registry) Mapper(name string, fn Mapper) error {
	return r.addCallback(KindMapper, name, func(c *callbacks) { c.mappers[name] = fn })
}

// KeyMapper registers a KeyMapper callback under name.
func (r *Registry) KeyMapper(name string, fn KeyMapper) error {
	return r.addCallback(KindKeyMapper, name, func(c *callbacks) { c.keyMappers[name] = fn })
}

// Resolver registers a Resolver callback under name.
func (r *Registry) Resolver(name string, fn Resolver) error {
	return r.addCallback(KindResolver, name, func(c *callbacks) { c.resolvers[name] = fn })
}

func (r *Registry) addCallback(kind CallbackKind, name string, add func(*callbacks)) error {
	if !validRef(name) {
		return newConfigError(ErrInvalidTag, "", "", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return newConfigError(ErrSealed, "", "", name)
	}
	if r.callbacks.has(kind, name, "") {
		return newConfigError(ErrDuplicateCallback, "", "", name)
	}
	add(r.callbacks)
	return nil
}

// TypeOption configures a type at registration.
type TypeOption func(*descriptor)

// WithTag assigns the class tag stamped on instances. Zero means untagged.
func WithTag(tag int) TypeOption {
	return func(d *descriptor) {
		d.tag = tag
	}
}

// WithName overrides the registered name, which defaults to the Go type name.
func WithName(name string) TypeOption {
	return func(d *descriptor) {
		d.name = name
	}
}

// WithMapper sets the class-level mapper that reshapes the raw input of the
// type before any field is processed.
func WithMapper(ref string) TypeOption {
	return func(d *descriptor) {
		d.mapper = ref
	}
}

// WithPolicy sets the instance acquisition policy.
func WithPolicy(p Policy) TypeOption {
	return func(d *descriptor) {
		d.policy = p
	}
}

// Register scans the struct tags of T and adds it to the registry.
// T must be a struct type. Callback references are checked against the
// callbacks registered so far unless the registry is lenient.
func Register[T any](reg *Registry, opts ...TypeOption) error {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return newConfigError(ErrUnknownType, typ.String(), "", "not a struct")
	}

	d := &descriptor{name: typ.Name(), typ: typ}
	for _, opt := range opts {
		opt(d)
	}

	fields, err := buildFieldPlans[T](d.name)
	if err != nil {
		return err
	}
	d.fields = fields

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.sealed {
		return newConfigError(ErrSealed, d.name, "", "")
	}
	if _, ok := reg.byType[typ]; ok {
		return newConfigError(ErrDuplicateType, d.name, "", "")
	}
	if _, ok := reg.byName[d.name]; ok {
		return newConfigError(ErrDuplicateType, d.name, "", d.name)
	}
	if d.tag != 0 {
		if other, ok := reg.byTag[d.tag]; ok {
			return newConfigError(ErrTagConflict, d.name, "", fmt.Sprintf("%d (held by %s)", d.tag, other.name))
		}
	}
	if !reg.lenient {
		if err := reg.checkCallbacks(d); err != nil {
			return err
		}
	}

	reg.byType[typ] = d
	reg.byName[d.name] = d
	if d.tag != 0 {
		reg.byTag[d.tag] = d
	}

	emitTypeRegistered(context.Background(), d.name, d.tag, d.policy)
	return nil
}

// buildFieldPlans creates field plans for T by scanning its struct tags.
func buildFieldPlans[T any](typeName string) ([]fieldPlan, error) {
	spec := sentinel.Scan[T]()
	typ := reflect.TypeFor[T]()

	plans := make([]fieldPlan, 0, len(spec.Fields))
	for _, fm := range spec.Fields {
		sf := typ.FieldByIndex(fm.Index)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		plan, skip, err := resolveDirective(typeName, fm, sf)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		plans = append(plans, plan)
	}

	// Declared order is the evaluation order.
	sort.SliceStable(plans, func(i, j int) bool {
		return lessIndex(plans[i].index, plans[j].index)
	})
	return plans, nil
}

func lessIndex(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// checkCallbacks ensures every reference in d resolves. Caller holds mu.
func (r *Registry) checkCallbacks(d *descriptor) error {
	if d.mapper != "" && !r.callbacks.has(KindMapper, d.mapper, d.name) {
		return newConfigError(ErrUnresolvedCallback, d.name, "", d.mapper)
	}
	for _, f := range d.fields {
		dir := f.directive
		refs := []struct {
			kind CallbackKind
			ref  string
		}{
			{KindMapper, dir.Mapper},
			{KindMapper, dir.Filter},
			{KindKeyMapper, dir.KeyMapper},
		}
		if isCallbackRef(dir.Source) {
			refs = append(refs, struct {
				kind CallbackKind
				ref  string
			}{KindResolver, dir.Source})
		}
		for _, c := range refs {
			if c.ref != "" && !r.callbacks.has(c.kind, c.ref, d.name) {
				return newConfigError(ErrUnresolvedCallback, d.name, dir.Field, c.ref)
			}
		}
	}
	return nil
}

// Seal freezes the registry and resolves nested type names. Fields without
// an explicit type tag get the registered name of their element type. It
// runs once; Create calls it implicitly.
func (r *Registry) Seal() error {
	r.sealOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.sealed = true
		r.sealErr = r.resolveTypes()
	})
	return r.sealErr
}

// resolveTypes fills in and validates nested type names. Caller holds mu.
func (r *Registry) resolveTypes() error {
	for _, d := range r.byType {
		for i := range d.fields {
			f := &d.fields[i]
			if f.directive.Type != "" {
				if _, ok := r.byName[f.directive.Type]; !ok && !r.lenient {
					return newConfigError(ErrUnknownType, d.name, f.directive.Field, f.directive.Type)
				}
				continue
			}
			if f.elem == nil {
				continue
			}
			if nested, ok := r.byType[f.elem]; ok {
				f.directive.Type = nested.name
			}
		}
	}
	return nil
}

// lookup returns the descriptor registered under name.
func (r *Registry) lookup(name string) (*descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// Lookup returns the registered type with the given name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	d, ok := r.lookup(name)
	if !ok {
		return Entry{}, false
	}
	return Entry{Name: d.name, Type: d.typ, Tag: d.tag, Policy: d.policy}, true
}

// descriptorFor returns the descriptor of a Go type.
func (r *Registry) descriptorFor(typ reflect.Type) (*descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[typ]
	return d, ok
}

// Tag returns the class tag of a registered type.
func (r *Registry) Tag(typ reflect.Type) (int, bool) {
	d, ok := r.descriptorFor(typ)
	if !ok || d.tag == 0 {
		return 0, false
	}
	return d.tag, true
}

// TypeForTag returns the type a class tag was assigned to.
func (r *Registry) TypeForTag(tag int) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byTag[tag]
	if !ok {
		return nil, false
	}
	return d.typ, true
}

// Entries returns a snapshot of the registered types ordered by tag, with
// untagged types last by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.byType))
	for _, d := range r.byType {
		out = append(out, Entry{Name: d.name, Type: d.typ, Tag: d.tag, Policy: d.policy})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Tag == 0) != (b.Tag == 0) {
			return b.Tag == 0
		}
		if a.Tag != b.Tag {
			return a.Tag < b.Tag
		}
		return a.Name < b.Name
	})
	return out
}

// Shared returns the shared instance of a singleton type, if one has been
// materialized.
func Shared[T any](reg *Registry) (*T, bool) {
	d, ok := reg.descriptorFor(reflect.TypeFor[T]())
	if !ok || d.policy != ProcessWideSingleton || !d.shared.IsValid() {
		return nil, false
	}
	v, ok := d.shared.Interface().(*T)
	return v, ok
}
