// Package jast defines the canonical element tree produced by a compile.
//
// An element serializes as a 2 or 3 item JSON array:
//
//	[tag, props]
//	[tag, props, children]
//
// where tag is a string or null (a transparent grouping node), props is an
// object whose key order is preserved, and children is omitted when empty.
package jast

import "math/big"

// Node is one of string, float64, *big.Int, bool, nil or *Element.
type Node = any

// Element is a canonical element. An empty Tag is the null tag.
type Element struct {
	Tag      string
	Props    Props
	Children []Node
}

// NewElement builds an element and enforces the tree invariants:
// a "children" prop is removed and an empty child list becomes nil.
func NewElement(tag string, props Props, children []Node) *Element {
	props.Delete("children")
	if len(children) == 0 {
		children = nil
	}
	return &Element{Tag: tag, Props: props, Children: children}
}

// Fragment builds a null-tag element grouping children.
func Fragment(children ...Node) *Element {
	return NewElement("", nil, children)
}

// IsFragment reports whether e has the null tag.
func (e *Element) IsFragment() bool {
	return e.Tag == ""
}

// Prop is one key/value pair of an element's properties.
type Prop struct {
	Key   string
	Value any
}

// Props is an insertion-ordered property map.
// Values are Node primitives, *Element, Props or []any.
type Props []Prop

// Get returns the value stored under key.
func (p Props) Get(key string) (any, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return nil, false
}

// Set stores value under key. An existing key keeps its position.
func (p *Props) Set(key string, value any) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Prop{Key: key, Value: value})
}

// Delete removes key if present.
func (p *Props) Delete(key string) {
	for i := range *p {
		if (*p)[i].Key == key {
			*p = append((*p)[:i], (*p)[i+1:]...)
			return
		}
	}
}

// Keys returns the property names in insertion order.
func (p Props) Keys() []string {
	keys := make([]string, len(p))
	for i, prop := range p {
		keys[i] = prop.Key
	}
	return keys
}

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	copy(out, p)
	return out
}

// IsPrimitive reports whether v is a primitive canonical node.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, float64, bool, *big.Int:
		return true
	}
	return false
}
