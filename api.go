// Package timings materializes decoded hierarchical data into typed object graphs.
//
// Input is the generic value a decoder produces (ordered objects, lists and
// scalars). Output is a graph of registered struct types populated field by
// field from declarative struct tags, with optional named callbacks reshaping
// values along the way.
//
// # Tag Syntax
//
// Field behavior is declared via struct tags:
//
//	index:"ticks"            - source key (default: json tag name, then field name)
//	index:"@key"             - key under which the enclosing entry was stored
//	index:"@value"           - the whole raw value being materialized
//	index:"0"                - position in a list-shaped input
//	index:"Region::id"       - computed by a registered Resolver
//	type:"Region"            - nested type (default: the field's registered element type)
//	mapper:"Region::decode"  - replace the raw value before materialization
//	filter:"trim"            - post-process the final value
//	keymapper:"Region::key"  - rekey entries of a Mapping field
//
// A field of type *Mapping[V] expects an array: it always receives an ordered
// mapping, empty when the input is absent or scalar.
//
// # Basic Usage
//
//	type Region struct {
//	    timings.Tagged
//	    ID    string `index:"@key"`
//	    Ticks int    `index:"ticks"`
//	}
//
//	type History struct {
//	    Regions *timings.Mapping[*Region] `index:"history"`
//	}
//
//	reg := timings.NewRegistry()
//	_ = timings.Register[Region](reg, timings.WithTag(3))
//	_ = timings.Register[History](reg)
//
//	engine := timings.New(reg)
//	history, err := timings.Create[History](ctx, engine, data)
//
// # Callbacks
//
// Callbacks are typed functions registered on the Registry under stable
// names before the types referencing them. References are either
// "Type::method" or a bare "method"; a bare reference resolves against the
// owning type first and then the global scope, where the builtin filters live.
// References are validated when a type is registered. WithLenientCallbacks
// defers resolution to materialization time, where an unresolved reference
// contributes nothing.
//
// # Singletons
//
// Types registered WithPolicy(ProcessWideSingleton) are materialized into one
// shared instance that every Create call re-populates in place. The engine
// does not lock it; callers must serialize Create calls per singleton type.
//
// # Class Tags
//
// Types registered WithTag(n) and embedding Tagged are stamped with their tag
// on every materialization, so consumers can identify instances without type
// switches.
package timings

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a decoded composite value with its key order preserved.
// Decoders produce it for maps, and the engine produces it when flattening
// composites that have no declared type.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Tagged carries the class tag of a materialized instance.
// Embed it in registered types that should be stamped.
type Tagged struct {
	cls int
}

// ClassTag returns the tag stamped on the instance, or 0 when the type was
// registered without one.
func (t *Tagged) ClassTag() int {
	return t.cls
}

func (t *Tagged) setClassTag(tag int) {
	t.cls = tag
}

// classTagger is satisfied by pointers to types embedding Tagged.
type classTagger interface {
	setClassTag(tag int)
}
