package mdx

import (
	"github.com/alnah/go-mdx/internal/autolink"
	"github.com/alnah/go-mdx/internal/build"
	"github.com/alnah/go-mdx/internal/hast"
	"github.com/alnah/go-mdx/internal/highlight"
	"github.com/alnah/go-mdx/internal/jast"
	"github.com/alnah/go-mdx/internal/markup"
	"github.com/alnah/go-mdx/internal/render"
	"github.com/alnah/go-mdx/internal/vdom"
)

// Element tree types.
type (
	// Element is an element of the compiled tree. An empty Tag groups
	// children without an element.
	Element = jast.Element
	// Node is one of string, float64, *big.Int, bool, nil or *Element.
	Node = jast.Node
	// Props is an insertion-ordered property list.
	Props = jast.Props
	// Prop is one property.
	Prop = jast.Prop
)

// Intermediate tree types, for writing tree plugins.
type (
	// TreeNode is a node of the intermediate tree.
	TreeNode = hast.Node
	// TreePlugin transforms the intermediate tree before it is built.
	TreePlugin = hast.Plugin
	// TreePluginFunc adapts a function to TreePlugin.
	TreePluginFunc = hast.PluginFunc
	// File is the compiled document and the diagnostics reported on it.
	File = hast.File
	// Message is a diagnostic.
	Message = hast.Message
)

// Rendering types.
type (
	// VNode is a virtual DOM node.
	VNode = vdom.VNode
	// Component renders an element whose tag names it.
	Component = render.Component
	// Components maps tags to components.
	Components = render.Components
)

type (
	// Heading is a document heading with its anchor id.
	Heading = build.Heading
	// HypertextOptions tune the conversion of markup to elements, such as
	// the footnote labels and the id clobber prefix.
	HypertextOptions = markup.Options
	// HighlightOptions configure the Highlight preset.
	HighlightOptions = highlight.Options
	// AutolinkBehavior says where AutolinkHeadings puts the link.
	AutolinkBehavior = autolink.Behavior
)

// Autolink behaviors.
const (
	AutolinkWrap    = autolink.Wrap
	AutolinkPrepend = autolink.Prepend
	AutolinkAppend  = autolink.Append
)

// Input is one document to compile.
type Input struct {
	// Source is the document text.
	Source string
	// Path names the document in errors and diagnostics. Optional.
	Path string
}

// Result is a compiled document.
type Result struct {
	// File holds the source and the diagnostics tree plugins reported.
	File *File
	// Tree is the compiled element tree, rooted at a null-tag element.
	Tree *Element
	// Frontmatter is the decoded header: map[string]any, []any or a
	// scalar. Nil for an empty or missing header.
	Frontmatter any
	// HasFrontmatter reports whether the document had a header.
	HasFrontmatter bool
	// Headings lists the headings in document order.
	Headings []Heading
}
