package timings

import "strings"

// Context is one link of the ancestor chain threaded through materialization.
// A node is created for every field and every array entry visited and is
// never mutated afterwards. Parents never point at children.
type Context struct {
	// Name is the field name, or the entry key for array entries.
	Name string

	// Directive is the metadata of the field being materialized.
	Directive Directive

	// Owner is the object being populated: a pointer to the registered
	// struct for fields, the *Mapping under construction for array entries.
	Owner any

	// Parent is the enclosing context, nil at the top level.
	Parent *Context

	// Root is the owner of the outermost context in the chain.
	Root any
}

// newContext links a node under parent.
func newContext(name string, d Directive, owner any, parent *Context) *Context {
	c := &Context{
		Name:      name,
		Directive: d,
		Owner:     owner,
		Parent:    parent,
		Root:      owner,
	}
	if parent != nil && parent.Root != nil {
		c.Root = parent.Root
	}
	return c
}

// Depth returns the number of ancestors above c.
func (c *Context) Depth() int {
	n := 0
	for p := c.Parent; p != nil; p = p.Parent {
		n++
	}
	return n
}

// Ancestor returns the n-th ancestor of c, where Ancestor(0) is c itself.
// It returns nil when the chain is shorter than n.
func (c *Context) Ancestor(n int) *Context {
	cur := c
	for i := 0; i < n && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}

// Path returns the names from the outermost context down to c, dot separated.
func (c *Context) Path() string {
	if c == nil {
		return ""
	}
	names := make([]string, 0, c.Depth()+1)
	for cur := c; cur != nil; cur = cur.Parent {
		names = append(names, cur.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}
