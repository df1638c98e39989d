// Package yaml provides an order-preserving YAML decoder.
package yaml

import (
	"errors"
	"fmt"

	"github.com/zoobzio/timings"
	"gopkg.in/yaml.v3"
)

// yamlDecoder implements timings.Decoder for YAML.
type yamlDecoder struct{}

// New returns a YAML decoder.
func New() timings.Decoder {
	return &yamlDecoder{}
}

// ContentType returns the MIME type for YAML.
func (d *yamlDecoder) ContentType() string {
	return "application/yaml"
}

// Decode decodes the first document of data. Mapping keys keep their
// document order and aliases are expanded.
func (d *yamlDecoder) Decode(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	c := &converter{
		expanding: make(map[*yaml.Node]bool),
		budget:    expansionFactor*len(data) + expansionFloor,
	}
	return c.convert(&doc)
}

// Aliases may expand a document to at most expansionFactor nodes per input
// byte, plus expansionFloor.
const (
	expansionFactor = 16
	expansionFloor  = 4096
)

var (
	errAliasCycle     = errors.New("alias refers to itself")
	errAliasExpansion = errors.New("document is too large after alias expansion")
)

// converter walks a node tree, expanding aliases.
type converter struct {
	expanding map[*yaml.Node]bool
	budget    int
}

func (c *converter) convert(n *yaml.Node) (any, error) {
	c.budget--
	if c.budget < 0 {
		return nil, errAliasExpansion
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.convert(n.Content[0])

	case yaml.MappingNode:
		obj := timings.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("line %d: mapping key: %w", n.Content[i].Line, err)
			}
			v, err := c.convert(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		return obj, nil

	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
		}
		if c.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: %w", n.Line, errAliasCycle)
		}
		c.expanding[n.Alias] = true
		v, err := c.convert(n.Alias)
		delete(c.expanding, n.Alias)
		return v, err

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if i, ok := v.(int); ok {
			return int64(i), nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}
