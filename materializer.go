package timings

import (
	"context"
	"reflect"
	"time"
)

// Engine materializes decoded data into registered types.
//
// An Engine holds no state of its own beyond its registry, so it is safe for
// concurrent use with one exception: Create calls targeting the same
// ProcessWideSingleton type mutate a shared instance and must be serialized
// by the caller.
type Engine struct {
	registry *Registry
}

// New creates an engine over reg. The registry is sealed by the first Create.
func New(reg *Registry) *Engine {
	return &Engine{registry: reg}
}

// Registry returns the registry the engine materializes from.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Create materializes data as T, which must have been registered.
func Create[T any](ctx context.Context, e *Engine, data any) (*T, error) {
	typ := reflect.TypeFor[T]()
	d, ok := e.registry.descriptorFor(typ)
	if !ok {
		return nil, newConfigError(ErrUnknownType, typ.String(), "", "")
	}
	v, err := e.Create(ctx, d.name, data, nil)
	if err != nil {
		return nil, err
	}
	out, _ := v.(*T)
	return out, nil
}

// Create materializes data as the type registered under name and returns a
// pointer to the populated instance. parent is the context the value sits in;
// pass nil at the top level. Resolvers may call Create with their own parent
// to materialize values on demand.
func (e *Engine) Create(ctx context.Context, name string, data any, parent *Context) (any, error) {
	if err := e.registry.Seal(); err != nil {
		return nil, err
	}
	d, ok := e.registry.lookup(name)
	if !ok {
		return nil, newConfigError(ErrUnknownType, name, "", "")
	}

	if parent != nil {
		v, err := e.create(ctx, d, data, parent)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}

	start := time.Now()
	emitCreateStart(ctx, d.name)

	var retErr error
	defer func() {
		emitCreateComplete(ctx, d.name, time.Since(start), len(d.fields), retErr)
	}()

	v, err := e.create(ctx, d, data, nil)
	if err != nil {
		retErr = err
		return nil, err
	}
	return v.Interface(), nil
}

// create acquires an instance of d and populates it from data.
func (e *Engine) create(ctx context.Context, d *descriptor, data any, parent *Context) (reflect.Value, error) {
	inst := d.instance()
	owner := inst.Interface()

	if t, ok := owner.(classTagger); ok && d.tag != 0 {
		t.setClassTag(d.tag)
	}

	if d.mapper != "" {
		fn, ok := e.registry.callbacks.mapper(d.mapper, d.name)
		if ok {
			out, err := fn(data, parent)
			if err != nil {
				return reflect.Value{}, newMaterializeError(ErrCallback, d.name, parent, err)
			}
			data = out
		} else {
			emitCallbackUnresolved(ctx, d.name, "", d.mapper)
		}
	}

	for i := range d.fields {
		f := &d.fields[i]
		fc := newContext(f.directive.Field, f.directive, owner, parent)

		raw, present, err := e.resolve(ctx, d, f, fc, owner, data, parent)
		if err != nil {
			return reflect.Value{}, err
		}

		field := inst.Elem().FieldByIndex(f.index)
		if f.directive.Array {
			if err := e.materializeArray(ctx, d, f, fc, raw, present, field); err != nil {
				return reflect.Value{}, err
			}
			continue
		}
		if !present {
			continue
		}

		v, err := e.materializeSingle(ctx, d, raw, fc)
		if err != nil {
			return reflect.Value{}, err
		}
		e.assign(ctx, d, f, field, v)
	}

	if h, ok := owner.(Initializer); ok {
		if err := h.Init(); err != nil {
			return reflect.Value{}, newMaterializeError(ErrInit, d.name, parent, err)
		}
	}
	return inst, nil
}

// resolve finds the raw value of one field. present is false when the field
// has nothing to offer; an explicit null counts as nothing.
func (e *Engine) resolve(ctx context.Context, d *descriptor, f *fieldPlan, fc *Context, owner, data any, parent *Context) (any, bool, error) {
	src := f.directive.Source
	switch src {
	case SourceKey:
		if parent == nil {
			return nil, false, newMaterializeError(ErrMissingParent, d.name, fc, nil)
		}
		return parent.Name, true, nil
	case SourceValue:
		return data, data != nil, nil
	}

	if v, ok := fieldOf(data, src); ok {
		return v, v != nil, nil
	}

	if !isCallbackRef(src) {
		return nil, false, nil
	}
	fn, ok := e.registry.callbacks.resolver(src, d.name)
	if !ok {
		emitCallbackUnresolved(ctx, d.name, f.directive.Field, src)
		return nil, false, nil
	}
	v, err := fn(owner, data, parent)
	if err != nil {
		return nil, false, newMaterializeError(ErrCallback, d.name, fc, err)
	}
	return v, v != nil, nil
}

// materializeArray fills the mapping of an array field. The field always
// ends up holding a mapping, empty unless raw is a composite.
func (e *Engine) materializeArray(ctx context.Context, d *descriptor, f *fieldPlan, fc *Context, raw any, present bool, field reflect.Value) error {
	var sink mappingSink
	if !field.IsNil() {
		sink, _ = field.Interface().(mappingSink)
	}
	if sink == nil {
		sink, _ = reflect.New(f.typ.Elem()).Interface().(mappingSink)
	}
	sink.reset()

	var entries []entry
	if present {
		entries, _ = entriesOf(raw)
	}

	for _, en := range entries {
		ec := newContext(en.key, f.directive, sink, fc)
		v, err := e.materializeSingle(ctx, d, en.value, ec)
		if err != nil {
			return err
		}
		if !sink.put(en.key, v) {
			emitCoercionFailed(ctx, d.name, f.directive.Field+"."+en.key)
		}
	}

	if ref := f.directive.KeyMapper; ref != "" && sink.Len() > 0 {
		fn, ok := e.registry.callbacks.keyMapper(ref, d.name)
		if !ok {
			emitCallbackUnresolved(ctx, d.name, f.directive.Field, ref)
		} else {
			// Rekey in production order; a later entry overwrites an earlier one
			// mapped to the same key.
			produced := sink.pairs()
			sink.reset()
			for _, p := range produced {
				key, err := fn(p.key, p.value, fc)
				if err != nil {
					return newMaterializeError(ErrCallback, d.name, fc, err)
				}
				sink.put(key, p.value)
			}
		}
	}

	field.Set(reflect.ValueOf(sink))
	return nil
}

// materializeSingle turns one raw value into the value stored for context c:
// mapper, else nested type, else flattened composite, then filter.
// A nested type is created even from nil, so array entries that are null
// still hold an instance. An unresolved mapper or filter is skipped.
func (e *Engine) materializeSingle(ctx context.Context, d *descriptor, raw any, c *Context) (any, error) {
	dir := c.Directive
	callbacks := e.registry.callbacks

	mapped := false
	if dir.Mapper != "" {
		if fn, ok := callbacks.mapper(dir.Mapper, d.name); ok {
			out, err := fn(raw, c)
			if err != nil {
				return nil, newMaterializeError(ErrCallback, d.name, c, err)
			}
			raw, mapped = out, true
		} else {
			emitCallbackUnresolved(ctx, d.name, dir.Field, dir.Mapper)
		}
	}

	if !mapped {
		nested, ok := e.nested(dir.Type)
		switch {
		case ok && !nested.holds(raw):
			v, err := e.create(ctx, nested, raw, c)
			if err != nil {
				return nil, err
			}
			raw = v.Interface()
		case isComposite(raw):
			raw = flatten(raw)
		}
	}

	if dir.Filter != "" {
		if fn, ok := callbacks.mapper(dir.Filter, d.name); ok {
			out, err := fn(raw, c)
			if err != nil {
				return nil, newMaterializeError(ErrCallback, d.name, c, err)
			}
			raw = out
		} else {
			emitCallbackUnresolved(ctx, d.name, dir.Field, dir.Filter)
		}
	}
	return raw, nil
}

// holds reports whether v is already an instance of d. Such values, as
// returned by resolvers, are stored without being materialized again.
func (d *descriptor) holds(v any) bool {
	return reflect.TypeOf(v) == reflect.PointerTo(d.typ)
}

// nested returns the descriptor of a nested type name, if registered.
func (e *Engine) nested(name string) (*descriptor, bool) {
	if name == "" {
		return nil, false
	}
	return e.registry.lookup(name)
}

// assign stores v in field, leaving the field untouched when v cannot be
// represented as the field's type.
func (e *Engine) assign(ctx context.Context, d *descriptor, f *fieldPlan, field reflect.Value, v any) {
	rv, ok := coerce(v, f.typ)
	if !ok {
		emitCoercionFailed(ctx, d.name, f.directive.Field)
		return
	}
	field.Set(rv)
}
