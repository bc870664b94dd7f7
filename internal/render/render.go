// Package render maps element trees onto the virtual DOM.
package render

import (
	"math/big"

	"github.com/alnah/go-mdx/internal/jast"
	"github.com/alnah/go-mdx/internal/vdom"
)

// Component renders an element whose tag names it. props never holds
// children.
type Component func(props jast.Props, children []*vdom.VNode) *vdom.VNode

// Components maps tags to components.
type Components map[string]Component

// Render maps node onto the virtual DOM. Null and booleans render nothing.
// Tags missing from components become native elements.
func Render(node jast.Node, components Components) *vdom.VNode {
	switch v := node.(type) {
	case nil, bool:
		return nil
	case string:
		return vdom.NewText(v)
	case float64:
		return vdom.NewText(jast.FormatNumber(v))
	case *big.Int:
		return vdom.NewText(v.String())
	case *jast.Element:
		return element(v, components)
	}
	return nil
}

func element(e *jast.Element, components Components) *vdom.VNode {
	source := e.Children
	if source == nil {
		if list, ok := e.Props.Get("children"); ok {
			source, _ = list.([]any)
		}
	}

	var children []*vdom.VNode
	for _, c := range source {
		if n := Render(c, components); n != nil {
			children = append(children, n)
		}
	}

	props := e.Props.Clone()
	props.Delete("children")
	if len(children) > 1 {
		return renderMany(e.Tag, props, children, components)
	}
	var child *vdom.VNode
	if len(children) == 1 {
		child = children[0]
	}
	return renderOne(e.Tag, props, child, components)
}

func renderOne(tag string, props jast.Props, child *vdom.VNode, components Components) *vdom.VNode {
	var children []*vdom.VNode
	if child != nil {
		children = []*vdom.VNode{child}
	}
	return construct(tag, props, children, components)
}

func renderMany(tag string, props jast.Props, children []*vdom.VNode, components Components) *vdom.VNode {
	n := construct(tag, props, children, components)
	if n == nil {
		return nil
	}
	return n.Static()
}

func construct(tag string, props jast.Props, children []*vdom.VNode, components Components) *vdom.VNode {
	if tag == "" {
		return vdom.NewFragment(children...)
	}
	if c, ok := components[tag]; ok && c != nil {
		return c(props, children)
	}
	return vdom.NewElement(tag, props, children...)
}
