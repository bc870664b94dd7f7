package mdx

import (
	"io"

	"github.com/alnah/go-mdx/internal/render"
	"github.com/alnah/go-mdx/internal/vdom"
)

// Render maps a compiled tree onto the virtual DOM. Tags found in
// components are rendered by them, others become native elements. Render
// never fails and never modifies node.
func Render(node Node, components Components) *VNode {
	return render.Render(node, components)
}

// RenderHTML renders node and writes it as HTML.
func RenderHTML(w io.Writer, node Node, components Components) error {
	return vdom.WriteHTML(w, render.Render(node, components))
}

// NewElement creates a native element, for use in components.
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	return vdom.NewElement(tag, props, children...)
}

// NewText creates a text node.
func NewText(text string) *VNode {
	return vdom.NewText(text)
}

// NewFragment groups nodes without an element.
func NewFragment(children ...*VNode) *VNode {
	return vdom.NewFragment(children...)
}
