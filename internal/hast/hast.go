// Package hast defines the intermediate tree handed from the markup parser
// to the tree builder.
//
// The tree is a closed tagged union: every node is a *Node and its Kind
// says which fields are meaningful.
package hast

import (
	"strings"

	"github.com/dop251/goja/ast"

	"github.com/alnah/go-mdx/internal/program"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindRoot Kind = iota
	KindElement
	KindText
	KindComment
	KindDoctype
	KindRaw
	KindFlowExpression
	KindTextExpression
	KindJSXFlowElement
	KindJSXTextElement
	KindESM
)

var kindNames = [...]string{
	KindRoot:           "root",
	KindElement:        "element",
	KindText:           "text",
	KindComment:        "comment",
	KindDoctype:        "doctype",
	KindRaw:            "raw",
	KindFlowExpression: "mdxFlowExpression",
	KindTextExpression: "mdxTextExpression",
	KindJSXFlowElement: "mdxJsxFlowElement",
	KindJSXTextElement: "mdxJsxTextElement",
	KindESM:            "mdxjsEsm",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Position locates a node in the source document.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Property is one HTML attribute of an element. Value is a string, bool,
// float64 or []string.
type Property struct {
	Name  string
	Value any
}

// AttributeKind identifies the variant of a JSX attribute.
type AttributeKind int

const (
	// AttrString is name="value".
	AttrString AttributeKind = iota
	// AttrBoolean is a valueless attribute.
	AttrBoolean
	// AttrExpression is name={expression}.
	AttrExpression
	// AttrSpread is {...expression}.
	AttrSpread
)

// Attribute is one attribute of a JSX element.
type Attribute struct {
	Kind  AttributeKind
	Name  string
	Value string
	// Expression is the parsed expression of AttrExpression and AttrSpread
	// attributes. It is nil for an empty container.
	Expression ast.Expression
	Position   Position
}

// Node is one node of the intermediate tree.
type Node struct {
	Kind Kind

	// Tag is the element tag name or the JSX element name. A JSX fragment
	// has an empty name.
	Tag string

	// Properties are the attributes of KindElement nodes, in source order.
	Properties []Property

	// Attributes are the attributes of JSX element nodes.
	Attributes []Attribute

	// Value is the text of text, comment, doctype and raw nodes, and the
	// source code of expression and ESM nodes.
	Value string

	// Expression is the parsed code of expression nodes. Nil when the
	// code holds only whitespace and comments.
	Expression ast.Expression

	// Module is the parsed code of ESM nodes.
	Module *program.Module

	Children []*Node
	Position Position
}

// NewElement returns an element node.
func NewElement(tag string, props []Property, children ...*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Properties: props, Children: children}
}

// NewText returns a text node.
func NewText(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// Property returns the value of the named property.
func (n *Node) Property(name string) (any, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// SetProperty replaces or appends a property.
func (n *Node) SetProperty(name string, value any) {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			n.Properties[i].Value = value
			return
		}
	}
	n.Properties = append(n.Properties, Property{Name: name, Value: value})
}

// ClassNames returns the class list of an element.
func (n *Node) ClassNames() []string {
	v, ok := n.Property("class")
	if !ok {
		return nil
	}
	switch v := v.(type) {
	case []string:
		return v
	case string:
		return strings.Fields(v)
	}
	return nil
}

// IsElement reports whether n is an element with one of the given tags.
func (n *Node) IsElement(tags ...string) bool {
	if n == nil || n.Kind != KindElement {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Tag == t {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of n. Expressions contribute
// their source code.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	switch n.Kind {
	case KindText, KindFlowExpression, KindTextExpression:
		b.WriteString(n.Value)
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// Visitor is called for each node of a walk. Returning false skips the
// children of n.
type Visitor func(n, parent *Node) bool

// Walk visits n and its descendants depth-first in document order.
func Walk(n *Node, visit Visitor) {
	walk(n, nil, visit)
}

func walk(n, parent *Node, visit Visitor) {
	if !visit(n, parent) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, visit)
	}
}

// HeadingLevel returns the level of an h1 to h6 element, or 0.
func HeadingLevel(n *Node) int {
	if n == nil || n.Kind != KindElement || len(n.Tag) != 2 || n.Tag[0] != 'h' {
		return 0
	}
	if l := int(n.Tag[1] - '0'); l >= 1 && l <= 6 {
		return l
	}
	return 0
}

// Heading is a heading found in the source document.
type Heading struct {
	Depth int
	Value string
}
