package report

import (
	"fmt"
	"strconv"

	"github.com/zoobzio/timings"
)

// legacyHistoryKeys maps the long history keys of older reports to the
// short ones the fields are declared with.
var legacyHistoryKeys = map[string]string{
	"start":         "s",
	"end":           "e",
	"totalTicks":    "tk",
	"totalTime":     "tm",
	"worlds":        "w",
	"handlers":      "h",
	"minuteReports": "mp",
}

// normalizeHistory rewrites legacy history keys in place order.
func normalizeHistory(raw any, _ *timings.Context) (any, error) {
	obj, ok := raw.(*timings.Object)
	if !ok {
		return raw, nil
	}
	out := timings.NewObject()
	for p := obj.Oldest(); p != nil; p = p.Next() {
		key := p.Key
		if short, ok := legacyHistoryKeys[key]; ok {
			key = short
		}
		out.Set(key, p.Value)
	}
	return out, nil
}

// idMap finds the id map in scope for c: the one being built by an
// enclosing TimingsMap, else the one already attached to the report root.
func idMap(c *timings.Context) *TimingsMap {
	for cur := c; cur != nil; cur = cur.Parent {
		if m, ok := cur.Owner.(*TimingsMap); ok {
			return m
		}
	}
	if c != nil {
		if m, ok := c.Root.(*TimingsMaster); ok {
			return m.IDMap
		}
	}
	return nil
}

// identityGroup resolves the group name of a TimingIdentity.
func identityGroup(owner, _ any, parent *timings.Context) (any, error) {
	ident, ok := owner.(*TimingIdentity)
	if !ok {
		return nil, fmt.Errorf("identity group: unexpected owner %T", owner)
	}
	m := idMap(parent)
	if m == nil {
		return nil, nil
	}
	name, ok := m.Groups.Get(strconv.Itoa(ident.GroupID))
	if !ok {
		return nil, nil
	}
	return name, nil
}

// handlerIdentity resolves the identity of a TimingHandler from the id map.
func handlerIdentity(owner, _ any, parent *timings.Context) (any, error) {
	h, ok := owner.(*TimingHandler)
	if !ok {
		return nil, fmt.Errorf("handler identity: unexpected owner %T", owner)
	}
	m := idMap(parent)
	if m == nil {
		return nil, nil
	}
	ident, ok := m.Handlers.Get(strconv.Itoa(h.ID))
	if !ok {
		return nil, nil
	}
	return ident, nil
}

// handlerByID keys handlers by their id rather than list position.
func handlerByID(key string, value any, _ *timings.Context) (string, error) {
	if h, ok := value.(*TimingHandler); ok && h != nil {
		return strconv.Itoa(h.ID), nil
	}
	return key, nil
}

// dataByID keys child samples by their id rather than list position.
func dataByID(key string, value any, _ *timings.Context) (string, error) {
	if d, ok := value.(*TimingData); ok && d != nil {
		return strconv.Itoa(d.ID), nil
	}
	return key, nil
}

// worldName resolves the name of a world id.
func worldName(owner, _ any, parent *timings.Context) (any, error) {
	w, ok := owner.(*World)
	if !ok {
		return nil, fmt.Errorf("world name: unexpected owner %T", owner)
	}
	if m := idMap(parent); m != nil {
		if name, ok := m.Worlds.Get(w.ID); ok {
			return name, nil
		}
	}
	return w.ID, nil
}

// worldByName keys worlds by name.
func worldByName(key string, value any, _ *timings.Context) (string, error) {
	if w, ok := value.(*World); ok && w != nil && w.Name != "" {
		return w.Name, nil
	}
	return key, nil
}

// regionID builds "world:x:z" from the enclosing world and the chunk position.
func regionID(owner, _ any, parent *timings.Context) (any, error) {
	r, ok := owner.(*Region)
	if !ok {
		return nil, fmt.Errorf("region id: unexpected owner %T", owner)
	}
	world := r.Key
	// parent is the entry; its parent is the world's regions field.
	if field := parent.Ancestor(1); field != nil {
		if w, ok := field.Owner.(*World); ok {
			world = w.Name
		}
	}
	return fmt.Sprintf("%s:%d:%d", world, r.ChunkX, r.ChunkZ), nil
}

// regionKey keys regions by their id.
func regionKey(key string, value any, _ *timings.Context) (string, error) {
	if r, ok := value.(*Region); ok && r != nil && r.ID != "" {
		return r.ID, nil
	}
	return key, nil
}

// entityName keys entity counts by entity type name.
func entityName(key string, _ any, parent *timings.Context) (string, error) {
	if m := idMap(parent); m != nil {
		if name, ok := m.Entities.Get(key); ok {
			return name, nil
		}
	}
	return key, nil
}

// tileEntityName keys tile entity counts by tile entity type name.
func tileEntityName(key string, _ any, parent *timings.Context) (string, error) {
	if m := idMap(parent); m != nil {
		if name, ok := m.TileEntities.Get(key); ok {
			return name, nil
		}
	}
	return key, nil
}
