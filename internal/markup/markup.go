// Package markup parses MDX documents with goldmark and converts the
// result to the intermediate tree.
//
// The MDX extension adds ESM blocks, flow and text expressions and flow
// and text JSX elements to CommonMark, and removes indented code, HTML
// blocks, raw inline HTML and angle-bracket autolinks, whose syntax is
// taken over by JSX.
package markup

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdx/internal/hast"
)

// Options tune the conversion to the intermediate tree.
type Options struct {
	// ClobberPrefix prefixes generated ids that could clash with ids of
	// the page the document is embedded in. Defaults to "user-content-".
	ClobberPrefix string
	// FootnoteLabel is the heading of the footnote section. Defaults to
	// "Footnotes".
	FootnoteLabel string
	// FootnoteBackLabel returns the accessible label of a back reference
	// to the reuse-th reference (counted from 1) of footnote index.
	FootnoteBackLabel func(index, reuse int) string
	// FootnoteBackContent is the visible text of back references.
	// Defaults to "↩".
	FootnoteBackContent string
}

func (o Options) withDefaults() Options {
	if o.ClobberPrefix == "" {
		o.ClobberPrefix = "user-content-"
	}
	if o.FootnoteLabel == "" {
		o.FootnoteLabel = "Footnotes"
	}
	if o.FootnoteBackLabel == nil {
		o.FootnoteBackLabel = func(index, reuse int) string {
			if reuse > 1 {
				return fmt.Sprintf("Back to reference %d-%d", index, reuse)
			}
			return fmt.Sprintf("Back to reference %d", index)
		}
	}
	if o.FootnoteBackContent == "" {
		o.FootnoteBackContent = "↩"
	}
	return o
}

// MDX is the goldmark extension installing the MDX grammar. It replaces
// the parser, so it must be applied before other extensions.
var MDX goldmark.Extender = mdx{}

type mdx struct{}

func (mdx) Extend(m goldmark.Markdown) {
	m.SetParser(newParser())
}

func newParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(esmParser{}, 50),
			util.Prioritized(parser.NewSetextHeadingParser(), 100),
			util.Prioritized(parser.NewThematicBreakParser(), 200),
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewATXHeadingParser(), 600),
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewBlockquoteParser(), 800),
			util.Prioritized(jsxFlowParser{}, 850),
			util.Prioritized(flowExpressionParser{}, 860),
			util.Prioritized(paragraphParser{parser.NewParagraphParser()}, 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(textExpressionParser{}, 300),
			util.Prioritized(jsxTagParser{}, 400),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
		parser.WithASTTransformers(util.Prioritized(tagPairer{}, 10)),
	)
}

// Parser turns MDX source into the intermediate tree. It is safe for
// concurrent use once built.
type Parser struct {
	md   goldmark.Markdown
	opts Options
}

// New returns a Parser with the MDX grammar followed by the given
// extensions, such as extension.GFM or extension.Footnote.
func New(extensions []goldmark.Extender, opts Options) *Parser {
	all := append([]goldmark.Extender{MDX}, extensions...)
	return &Parser{
		md:   goldmark.New(goldmark.WithExtensions(all...)),
		opts: opts.withDefaults(),
	}
}

// Parse parses src and returns the intermediate tree with the headings of
// the document in order. name labels node positions; callers prefix
// errors with it.
func (p *Parser) Parse(name string, src []byte) (*hast.Node, []hast.Heading, error) {
	pc := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
	if err := parseError(pc); err != nil {
		return nil, nil, err
	}

	c := newConverter(name, src, p.opts)
	root, err := c.document(doc)
	if err != nil {
		return nil, nil, err
	}
	assignIDs(root)
	return root, c.headings, nil
}
