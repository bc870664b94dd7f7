// Package vdom is the virtual DOM that rendered documents are expressed in.
package vdom

import "github.com/alnah/go-mdx/internal/jast"

// VKind is the type of a virtual node.
type VKind uint8

const (
	// KindElement is a DOM element.
	KindElement VKind = iota
	// KindText is a text node.
	KindText
	// KindFragment groups children without a parent element.
	KindFragment
)

// VNodeFlags are construction hints.
type VNodeFlags uint8

const (
	// FlagStatic marks children that were given as a list rather than as
	// a single child.
	FlagStatic VNodeFlags = 1 << iota
)

// VNode is a virtual DOM node. Nodes are not modified once built.
type VNode struct {
	Kind VKind

	// Tag is the element name. Only used when Kind == KindElement.
	Tag string

	// Props holds the element properties under their React names.
	Props jast.Props

	Kids  []*VNode
	Flags VNodeFlags

	// Text content. Only used when Kind == KindText.
	Text string
}

// NewElement creates an element. Nil children are skipped.
func NewElement(tag string, props jast.Props, children ...*VNode) *VNode {
	return &VNode{Kind: KindElement, Tag: tag, Props: props, Kids: compact(children)}
}

// NewText creates a text node.
func NewText(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// NewFragment creates a fragment. Nil children are skipped.
func NewFragment(children ...*VNode) *VNode {
	return &VNode{Kind: KindFragment, Kids: compact(children)}
}

// Static returns a copy of n flagged as built from a child list.
func (n *VNode) Static() *VNode {
	c := *n
	c.Flags |= FlagStatic
	return &c
}

func compact(children []*VNode) []*VNode {
	var kids []*VNode
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	return kids
}
