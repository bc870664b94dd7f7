package markup

import (
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/alnah/go-mdx/internal/jsx"
)

// Node kinds added to the goldmark AST.
var (
	KindESM            = ast.NewNodeKind("MDXESM")
	KindFlowExpression = ast.NewNodeKind("MDXFlowExpression")
	KindTextExpression = ast.NewNodeKind("MDXTextExpression")
	KindJSXFlowElement = ast.NewNodeKind("MDXJSXFlowElement")
	KindJSXTextElement = ast.NewNodeKind("MDXJSXTextElement")
	KindJSXTag         = ast.NewNodeKind("MDXJSXTag")
)

// ESM is a block of top-level import and export statements. Its lines
// hold the code.
type ESM struct {
	ast.BaseBlock
}

func (n *ESM) Kind() ast.NodeKind { return KindESM }

func (n *ESM) IsRaw() bool { return true }

func (n *ESM) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// FlowExpression is a {expression} on lines of its own.
type FlowExpression struct {
	ast.BaseBlock
	Code jsx.Span

	end  int
	done bool
}

func (n *FlowExpression) Kind() ast.NodeKind { return KindFlowExpression }

func (n *FlowExpression) IsRaw() bool { return true }

func (n *FlowExpression) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Code": string(source[n.Code.Start:n.Code.End]),
	}, nil)
}

// JSXFlowElement is a tag on lines of its own. Unless the tag closes
// itself, the element holds the blocks up to the matching closing tag.
type JSXFlowElement struct {
	ast.BaseBlock
	Tag *jsx.Tag

	inTag  bool
	closed bool
}

func (n *JSXFlowElement) Kind() ast.NodeKind { return KindJSXFlowElement }

func (n *JSXFlowElement) IsRaw() bool { return true }

func (n *JSXFlowElement) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Tag.Name}, nil)
}

// TextExpression is a {expression} inside a paragraph.
type TextExpression struct {
	ast.BaseInline
	Code     jsx.Span
	Segments []jsx.Span
}

func (n *TextExpression) Kind() ast.NodeKind { return KindTextExpression }

func (n *TextExpression) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Code": string(source[n.Code.Start:n.Code.End]),
	}, nil)
}

// JSXTag is an unpaired inline tag. Tags are paired into JSXTextElement
// nodes once a block has been parsed.
type JSXTag struct {
	ast.BaseInline
	Tag      *jsx.Tag
	Segments []jsx.Span
}

func (n *JSXTag) Kind() ast.NodeKind { return KindJSXTag }

func (n *JSXTag) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Tag": tagString(n.Tag)}, nil)
}

// JSXTextElement is an inline element and the inlines between its tags.
type JSXTextElement struct {
	ast.BaseInline
	Tag      *jsx.Tag
	Segments []jsx.Span
}

func (n *JSXTextElement) Kind() ast.NodeKind { return KindJSXTextElement }

func (n *JSXTextElement) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Tag.Name}, nil)
}

func tagString(t *jsx.Tag) string {
	switch {
	case t.Closing:
		return fmt.Sprintf("</%s>", t.Name)
	case t.SelfClosing:
		return fmt.Sprintf("<%s />", t.Name)
	}
	return fmt.Sprintf("<%s>", t.Name)
}
