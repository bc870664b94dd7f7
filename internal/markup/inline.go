package markup

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdx/internal/jsx"
)

var maskedKey = parser.NewContextKey()

// masked is a copy of the document where everything outside the block's
// lines is blanked. Container markers such as "> " then never reach the
// expression scanner.
type masked struct {
	src   []byte
	spans []jsx.Span
}

func maskedLines(parent ast.Node, source []byte, pc parser.Context) *masked {
	cache, _ := pc.Get(maskedKey).(map[ast.Node]*masked)
	if cache == nil {
		cache = make(map[ast.Node]*masked)
		pc.Set(maskedKey, cache)
	}
	if m, ok := cache[parent]; ok {
		return m
	}
	spans := lineSpans(parent.Lines())
	m := &masked{src: jsx.Mask(source, spans), spans: spans}
	cache[parent] = m
	return m
}

func lineSpans(lines *text.Segments) []jsx.Span {
	spans := make([]jsx.Span, lines.Len())
	for i := range spans {
		seg := lines.At(i)
		spans[i] = jsx.Span{Start: seg.Start, End: seg.Stop}
	}
	return spans
}

// advanceTo moves block to the document offset end, which may lie on a
// later line.
func advanceTo(block text.Reader, end int) {
	for {
		line, seg := block.PeekLine()
		if line == nil {
			return
		}
		if end <= seg.Stop {
			block.Advance(end - seg.Start)
			return
		}
		block.AdvanceLine()
	}
}

// ---------------------------------------------------------------------------
// Text expressions
// ---------------------------------------------------------------------------

type textExpressionParser struct{}

func (textExpressionParser) Trigger() []byte { return []byte{'{'} }

func (textExpressionParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	_, seg := block.PeekLine()
	m := maskedLines(parent, block.Source(), pc)
	start := seg.Start
	end, err := jsx.Balanced(m.src, start)
	if err != nil {
		setError(pc, err)
		return nil
	}
	advanceTo(block, end)
	return &TextExpression{Code: jsx.Span{Start: start + 1, End: end - 1}, Segments: m.spans}
}

// ---------------------------------------------------------------------------
// Inline tags
// ---------------------------------------------------------------------------

type jsxTagParser struct{}

func (jsxTagParser) Trigger() []byte { return []byte{'<'} }

// Parse reads one tag. A '<' not followed by '/', '>' or a name start is
// literal text.
func (jsxTagParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) < 2 || !tagStart(line[1:]) {
		return nil
	}
	m := maskedLines(parent, block.Source(), pc)
	tag, err := jsx.ParseTag(m.src, seg.Start)
	if err != nil {
		setError(pc, err)
		return nil
	}
	advanceTo(block, tag.End)
	return &JSXTag{Tag: tag, Segments: m.spans}
}

func tagStart(rest []byte) bool {
	c := rest[0]
	return c == '/' || c == '>' || c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
