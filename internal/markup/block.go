package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdx/internal/jsx"
	"github.com/alnah/go-mdx/internal/mdxerr"
)

var errorKey = parser.NewContextKey()

// setError records the first error found while parsing. goldmark parsers
// cannot fail, so the error is reported once parsing is over.
func setError(pc parser.Context, err error) {
	if pc.Get(errorKey) == nil {
		pc.Set(errorKey, err)
	}
}

func parseError(pc parser.Context) error {
	if err, ok := pc.Get(errorKey).(error); ok {
		return err
	}
	return nil
}

func errorAt(src []byte, offset int, format string, args ...any) error {
	line, col := position(src, offset)
	return fmt.Errorf("%w: %d:%d: %s", mdxerr.ErrParse, line, col, fmt.Sprintf(format, args...))
}

// position converts a byte offset to a 1-based line and column.
func position(src []byte, offset int) (int, int) {
	offset = min(offset, len(src))
	line := bytes.Count(src[:offset], []byte{'\n'}) + 1
	col := offset - (bytes.LastIndexByte(src[:offset], '\n') + 1) + 1
	return line, col
}

// blockStart returns the document offset of the first non-space byte of
// the current line, or -1 for a blank line.
func blockStart(reader text.Reader, pc parser.Context) int {
	pos := pc.BlockOffset()
	if pos < 0 {
		return -1
	}
	_, seg := reader.PeekLine()
	return seg.Start - seg.Padding + pos
}

// restBlank reports whether only whitespace follows offset on its line.
func restBlank(src []byte, offset int) bool {
	end := bytes.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src) - offset
	}
	return util.IsBlank(src[offset : offset+end])
}

// appendLine records the part of the current line before end and reports
// whether end lies on this line.
func appendLine(lines *text.Segments, seg text.Segment, start, end int) bool {
	stop := seg.Stop
	if end < stop {
		stop = end
	}
	if start < stop {
		lines.Append(text.NewSegment(start, stop))
	}
	return end <= seg.Stop
}

// ---------------------------------------------------------------------------
// ESM
// ---------------------------------------------------------------------------

type esmParser struct{}

func (esmParser) Trigger() []byte { return []byte{'i', 'e'} }

func (esmParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if parent.Kind() != ast.KindDocument || pc.BlockIndent() != 0 {
		return nil, parser.NoChildren
	}
	line, seg := reader.PeekLine()
	if !isESMStart(line) {
		return nil, parser.NoChildren
	}
	node := &ESM{}
	node.Lines().Append(seg)
	reader.AdvanceToEOL()
	return node, parser.NoChildren
}

func (esmParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, seg := reader.PeekLine()
	if line == nil || util.IsBlank(line) {
		return parser.Close
	}
	node.Lines().Append(seg)
	reader.AdvanceToEOL()
	return parser.Continue | parser.NoChildren
}

func (esmParser) Close(ast.Node, text.Reader, parser.Context) {}

func (esmParser) CanInterruptParagraph() bool { return false }

func (esmParser) CanAcceptIndentedLine() bool { return false }

func isESMStart(line []byte) bool {
	for _, kw := range [][]byte{[]byte("import"), []byte("export")} {
		if bytes.HasPrefix(line, kw) {
			rest := line[len(kw):]
			return len(rest) > 0 && (rest[0] == ' ' || rest[0] == '\t' || rest[0] == '{' || rest[0] == '*')
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Flow expressions
// ---------------------------------------------------------------------------

type flowExpressionParser struct{}

func (flowExpressionParser) Trigger() []byte { return []byte{'{'} }

func (flowExpressionParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	start := blockStart(reader, pc)
	src := reader.Source()
	if start < 0 || src[start] != '{' {
		return nil, parser.NoChildren
	}
	end, err := jsx.Balanced(src, start)
	if err != nil {
		setError(pc, err)
		return nil, parser.NoChildren
	}
	if !restBlank(src, end) {
		return nil, parser.NoChildren
	}

	node := &FlowExpression{Code: jsx.Span{Start: start + 1, End: end - 1}, end: end}
	_, seg := reader.PeekLine()
	node.done = appendLine(node.Lines(), seg, start, end)
	reader.AdvanceToEOL()
	return node, parser.NoChildren
}

func (flowExpressionParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*FlowExpression)
	line, seg := reader.PeekLine()
	if n.done || line == nil {
		return parser.Close
	}
	n.done = appendLine(n.Lines(), seg, seg.Start, n.end)
	reader.AdvanceToEOL()
	return parser.Continue | parser.NoChildren
}

func (flowExpressionParser) Close(ast.Node, text.Reader, parser.Context) {}

func (flowExpressionParser) CanInterruptParagraph() bool { return false }

func (flowExpressionParser) CanAcceptIndentedLine() bool { return true }

// ---------------------------------------------------------------------------
// Flow JSX
// ---------------------------------------------------------------------------

type jsxFlowParser struct{}

func (jsxFlowParser) Trigger() []byte { return []byte{'<'} }

func (jsxFlowParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	start := blockStart(reader, pc)
	src := reader.Source()
	if start < 0 || src[start] != '<' {
		return nil, parser.NoChildren
	}
	tag, err := jsx.ParseTag(src, start)
	if err != nil {
		setError(pc, err)
		return nil, parser.NoChildren
	}
	if tag.Closing || !restBlank(src, tag.End) {
		return nil, parser.NoChildren
	}

	node := &JSXFlowElement{Tag: tag}
	_, seg := reader.PeekLine()
	node.inTag = !appendLine(node.Lines(), seg, start, tag.End)
	reader.AdvanceToEOL()
	if tag.SelfClosing || node.inTag {
		return node, parser.NoChildren
	}
	return node, parser.HasChildren
}

func (jsxFlowParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*JSXFlowElement)
	line, seg := reader.PeekLine()
	if line == nil {
		return parser.Close
	}

	if n.inTag {
		n.inTag = !appendLine(n.Lines(), seg, seg.Start, n.Tag.End)
		reader.AdvanceToEOL()
		if n.inTag {
			return parser.Continue | parser.NoChildren
		}
		if n.Tag.SelfClosing {
			return parser.Continue | parser.NoChildren
		}
		return parser.Continue | parser.HasChildren
	}
	if n.Tag.SelfClosing {
		return parser.Close
	}

	if closing := closingTagAt(reader, pc, line, seg); closing != nil && closing.Name == n.Tag.Name && !openDescendant(n, n.Tag.Name) {
		n.closed = true
		reader.AdvanceToEOL()
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (jsxFlowParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*JSXFlowElement)
	if n.Tag.SelfClosing || n.closed {
		return
	}
	name := n.Tag.Name
	setError(pc, errorAt(reader.Source(), n.Tag.Start, "expected a closing tag for <%s>", name))
}

func (jsxFlowParser) CanInterruptParagraph() bool { return false }

func (jsxFlowParser) CanAcceptIndentedLine() bool { return true }

// closingTagAt parses a closing tag alone on the current line.
func closingTagAt(reader text.Reader, pc parser.Context, line []byte, seg text.Segment) *jsx.Tag {
	pos := util.FirstNonSpacePosition(line)
	if pos < 0 || line[pos] != '<' {
		return nil
	}
	src := reader.Source()
	start := seg.Start - seg.Padding + pos
	tag, err := jsx.ParseTag(src, start)
	if err != nil || !tag.Closing || !restBlank(src, tag.End) {
		return nil
	}
	return tag
}

// openDescendant reports whether an unclosed element with the same name
// is open inside n. The closing tag then belongs to it.
func openDescendant(n *JSXFlowElement, name string) bool {
	for c := n.LastChild(); c != nil; c = c.LastChild() {
		if el, ok := c.(*JSXFlowElement); ok && !el.Tag.SelfClosing && !el.closed && el.Tag.Name == name {
			return true
		}
	}
	return false
}

// paragraphParser also opens on lines indented by four or more columns,
// which are not code blocks in MDX.
type paragraphParser struct {
	parser.BlockParser
}

func (paragraphParser) CanAcceptIndentedLine() bool { return true }
