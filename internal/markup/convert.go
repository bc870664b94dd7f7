package markup

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdx/internal/hast"
	"github.com/alnah/go-mdx/internal/jsx"
	"github.com/alnah/go-mdx/internal/mdxerr"
	"github.com/alnah/go-mdx/internal/program"
	"github.com/alnah/go-mdx/internal/slug"
)

// converter maps the goldmark tree to the intermediate tree. The mapping
// dispatches on node kind; unknown kinds are an error rather than silently
// dropped content.
type converter struct {
	name     string
	src      []byte
	opts     Options
	headings []hast.Heading
	labels   map[int]string
}

func newConverter(name string, src []byte, opts Options) *converter {
	return &converter{name: name, src: src, opts: opts, labels: make(map[int]string)}
}

func (c *converter) position(offset int) hast.Position {
	line, col := position(c.src, offset)
	return hast.Position{Line: line, Column: col, Offset: offset}
}

func (c *converter) document(doc ast.Node) (*hast.Node, error) {
	c.collectLabels(doc)
	children, err := c.blocks(doc)
	if err != nil {
		return nil, err
	}
	return &hast.Node{Kind: hast.KindRoot, Children: wrap(children, false)}, nil
}

// collectLabels maps footnote indexes to their labels, which references
// only know by index.
func (c *converter) collectLabels(doc ast.Node) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); entering && ok {
			c.labels[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	})
}

// ---------------------------------------------------------------------------
// Blocks
// ---------------------------------------------------------------------------

func (c *converter) blocks(parent ast.Node) ([]*hast.Node, error) {
	var out []*hast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		nodes, err := c.block(n)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (c *converter) block(n ast.Node) ([]*hast.Node, error) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return c.paragraph(n)
	case *ast.Heading:
		return c.heading(n)
	case *ast.ThematicBreak:
		return one(hast.NewElement("hr", nil)), nil
	case *ast.FencedCodeBlock:
		return one(c.fencedCode(n)), nil
	case *ast.Blockquote:
		children, err := c.blocks(n)
		if err != nil {
			return nil, err
		}
		return one(hast.NewElement("blockquote", nil, wrap(children, true)...)), nil
	case *ast.List:
		return c.list(n)
	case *ast.HTMLBlock, *ast.CodeBlock:
		return nil, fmt.Errorf("%w: %s", mdxerr.ErrUnsupportedSyntax, n.Kind())
	case *ESM:
		return c.esm(n)
	case *FlowExpression:
		return c.expression(hast.KindFlowExpression, n.Code, lineSpans(n.Lines()))
	case *JSXFlowElement:
		return c.jsxFlow(n)
	case *east.Table:
		return c.table(n)
	case *east.FootnoteList:
		return c.footnoteList(n)
	}
	return nil, fmt.Errorf("%w: %s block", mdxerr.ErrUnsupportedSyntax, n.Kind())
}

func one(n *hast.Node) []*hast.Node { return []*hast.Node{n} }

// wrap puts line endings between nodes, and around them when loose.
func wrap(nodes []*hast.Node, loose bool) []*hast.Node {
	out := make([]*hast.Node, 0, 2*len(nodes)+1)
	if loose {
		out = append(out, hast.NewText("\n"))
	}
	for i, n := range nodes {
		if i > 0 {
			out = append(out, hast.NewText("\n"))
		}
		out = append(out, n)
	}
	if loose && len(nodes) > 0 {
		out = append(out, hast.NewText("\n"))
	}
	return out
}

// paragraph returns a p element, or the paragraph's content as flow nodes
// when it holds only JSX elements, expressions and whitespace.
func (c *converter) paragraph(n ast.Node) ([]*hast.Node, error) {
	children, err := c.inlines(n)
	if err != nil {
		return nil, err
	}
	if flow, ok := unravel(children); ok {
		return flow, nil
	}
	if len(children) == 0 {
		return nil, nil
	}
	return one(hast.NewElement("p", nil, children...)), nil
}

func unravel(children []*hast.Node) ([]*hast.Node, bool) {
	var out []*hast.Node
	for _, ch := range children {
		switch ch.Kind {
		case hast.KindJSXTextElement:
			ch.Kind = hast.KindJSXFlowElement
			out = append(out, ch)
		case hast.KindTextExpression:
			ch.Kind = hast.KindFlowExpression
			out = append(out, ch)
		case hast.KindText:
			if strings.TrimSpace(ch.Value) != "" {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (c *converter) heading(n *ast.Heading) ([]*hast.Node, error) {
	children, err := c.inlines(n)
	if err != nil {
		return nil, err
	}
	c.headings = append(c.headings, hast.Heading{Depth: n.Level, Value: c.plainText(n)})
	tag := "h" + strconv.Itoa(n.Level)
	return one(hast.NewElement(tag, nil, children...)), nil
}

// plainText is the text content of n, with the source of expressions and
// the alternative text of images.
func (c *converter) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(c.src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(n.Value)
		case *TextExpression:
			b.Write(c.src[n.Code.Start:n.Code.End])
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func (c *converter) fencedCode(n *ast.FencedCodeBlock) *hast.Node {
	var buf []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf = seg.ConcatPadding(buf)
		buf = append(buf, seg.Value(c.src)...)
	}

	var props []hast.Property
	if lang := n.Language(c.src); len(lang) > 0 {
		lang = util.UnescapePunctuations(lang)
		props = append(props, hast.Property{Name: "class", Value: []string{"language-" + string(lang)}})
	}
	code := hast.NewElement("code", props)
	if len(buf) > 0 {
		code.Children = one(hast.NewText(string(buf)))
	}
	return hast.NewElement("pre", nil, code)
}

func (c *converter) list(n *ast.List) ([]*hast.Node, error) {
	loose := !n.IsTight
	var items []*hast.Node
	var tasks bool
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		li, task, err := c.listItem(item, loose)
		if err != nil {
			return nil, err
		}
		tasks = tasks || task
		items = append(items, li)
	}

	var props []hast.Property
	tag := "ul"
	if n.IsOrdered() {
		tag = "ol"
		if n.Start != 1 {
			props = append(props, hast.Property{Name: "start", Value: float64(n.Start)})
		}
	}
	if tasks {
		props = append(props, hast.Property{Name: "class", Value: []string{"contains-task-list"}})
	}
	return one(hast.NewElement(tag, props, wrap(items, true)...)), nil
}

// listItem lays out an item: paragraphs of tight lists are unwrapped and
// line endings separate the rest.
func (c *converter) listItem(item ast.Node, loose bool) (*hast.Node, bool, error) {
	results, err := c.blocks(item)
	if err != nil {
		return nil, false, err
	}

	var children []*hast.Node
	for i, r := range results {
		para := r.IsElement("p")
		if loose || i != 0 || !para {
			children = append(children, hast.NewText("\n"))
		}
		if para && !loose {
			children = append(children, r.Children...)
		} else {
			children = append(children, r)
		}
	}
	if len(results) > 0 {
		if tail := results[len(results)-1]; loose || !tail.IsElement("p") {
			children = append(children, hast.NewText("\n"))
		}
	}

	li := hast.NewElement("li", nil, children...)
	task := hasTaskCheckBox(item)
	if task {
		li.Properties = append(li.Properties, hast.Property{Name: "class", Value: []string{"task-list-item"}})
	}
	return li, task, nil
}

func hasTaskCheckBox(item ast.Node) bool {
	first := item.FirstChild()
	if first == nil {
		return false
	}
	_, ok := first.FirstChild().(*east.TaskCheckBox)
	return ok
}

func (c *converter) esm(n *ESM) ([]*hast.Node, error) {
	spans := lineSpans(n.Lines())
	if len(spans) == 0 {
		return nil, nil
	}
	code := jsx.Span{Start: spans[0].Start, End: spans[len(spans)-1].End}
	masked := jsx.Mask(c.src, spans)
	mod, err := program.ParseModule(c.name, masked, code)
	if err != nil {
		return nil, err
	}
	return one(&hast.Node{
		Kind:     hast.KindESM,
		Value:    string(masked[code.Start:code.End]),
		Module:   mod,
		Position: c.position(code.Start),
	}), nil
}

func (c *converter) expression(kind hast.Kind, code jsx.Span, spans []jsx.Span) ([]*hast.Node, error) {
	masked := jsx.Mask(c.src, spans)
	expr, err := jsx.ParseExpression(c.name, masked, code)
	if err != nil {
		return nil, err
	}
	return one(&hast.Node{
		Kind:       kind,
		Value:      string(masked[code.Start:code.End]),
		Expression: expr,
		Position:   c.position(code.Start - 1),
	}), nil
}

func (c *converter) jsxFlow(n *JSXFlowElement) ([]*hast.Node, error) {
	attrs, err := c.attributes(n.Tag, lineSpans(n.Lines()))
	if err != nil {
		return nil, err
	}
	children, err := c.blocks(n)
	if err != nil {
		return nil, err
	}
	return one(&hast.Node{
		Kind:       hast.KindJSXFlowElement,
		Tag:        n.Tag.Name,
		Attributes: attrs,
		Children:   children,
		Position:   c.position(n.Tag.Start),
	}), nil
}

func (c *converter) attributes(tag *jsx.Tag, spans []jsx.Span) ([]hast.Attribute, error) {
	if len(tag.Attributes) == 0 {
		return nil, nil
	}
	masked := jsx.Mask(c.src, spans)
	pos := c.position(tag.Start)

	attrs := make([]hast.Attribute, 0, len(tag.Attributes))
	for _, a := range tag.Attributes {
		attr := hast.Attribute{Name: a.Name, Position: pos}
		switch a.Kind {
		case jsx.AttrString:
			attr.Kind = hast.AttrString
			attr.Value = a.Value
		case jsx.AttrBoolean:
			attr.Kind = hast.AttrBoolean
		case jsx.AttrExpression, jsx.AttrSpread:
			expr, err := jsx.ParseExpression(c.name, masked, a.Code)
			if err != nil {
				return nil, err
			}
			attr.Kind = hast.AttrExpression
			if a.Kind == jsx.AttrSpread {
				if expr == nil {
					return nil, errorAt(c.src, a.Code.Start, "expected an expression after '...'")
				}
				attr.Kind = hast.AttrSpread
			}
			attr.Value = string(masked[a.Code.Start:a.Code.End])
			attr.Expression = expr
		default:
			line, col := position(c.src, tag.Start)
			return nil, fmt.Errorf("%w: %d:%d: element as the value of attribute %q",
				mdxerr.ErrUnsupportedSyntax, line, col, a.Name)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// ---------------------------------------------------------------------------
// GFM tables
// ---------------------------------------------------------------------------

func (c *converter) table(n *east.Table) ([]*hast.Node, error) {
	var head, body []*hast.Node
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		_, isHeader := row.(*east.TableHeader)
		tr, err := c.tableRow(row, isHeader)
		if err != nil {
			return nil, err
		}
		if isHeader {
			head = append(head, tr)
			continue
		}
		body = append(body, tr)
	}

	var sections []*hast.Node
	if len(head) > 0 {
		sections = append(sections, hast.NewElement("thead", nil, wrap(head, true)...))
	}
	if len(body) > 0 {
		sections = append(sections, hast.NewElement("tbody", nil, wrap(body, true)...))
	}
	return one(hast.NewElement("table", nil, wrap(sections, true)...)), nil
}

func (c *converter) tableRow(row ast.Node, header bool) (*hast.Node, error) {
	tag := "td"
	if header {
		tag = "th"
	}
	var cells []*hast.Node
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		children, err := c.inlines(cell)
		if err != nil {
			return nil, err
		}
		var props []hast.Property
		if tc, ok := cell.(*east.TableCell); ok {
			if align := alignment(tc.Alignment); align != "" {
				props = append(props, hast.Property{Name: "align", Value: align})
			}
		}
		cells = append(cells, hast.NewElement(tag, props, children...))
	}
	return hast.NewElement("tr", nil, wrap(cells, true)...), nil
}

func alignment(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return "left"
	case east.AlignRight:
		return "right"
	case east.AlignCenter:
		return "center"
	}
	return ""
}

// ---------------------------------------------------------------------------
// Footnotes
// ---------------------------------------------------------------------------

func (c *converter) footnoteID(index int) string {
	label := c.labels[index]
	if label == "" {
		label = strconv.Itoa(index)
	}
	return string(util.URLEscape([]byte(strings.ToLower(label)), false))
}

func (c *converter) footnoteList(n *east.FootnoteList) ([]*hast.Node, error) {
	var items []*hast.Node
	for fn := n.FirstChild(); fn != nil; fn = fn.NextSibling() {
		note, ok := fn.(*east.Footnote)
		if !ok {
			continue
		}
		content, err := c.blocks(note)
		if err != nil {
			return nil, err
		}
		li := hast.NewElement("li", []hast.Property{
			{Name: "id", Value: c.opts.ClobberPrefix + "fn-" + c.footnoteID(note.Index)},
		}, wrap(content, true)...)
		items = append(items, li)
	}
	if len(items) == 0 {
		return nil, nil
	}

	label := hast.NewElement("h2", []hast.Property{
		{Name: "class", Value: []string{"sr-only"}},
		{Name: "id", Value: "footnote-label"},
	}, hast.NewText(c.opts.FootnoteLabel))
	section := hast.NewElement("section", []hast.Property{
		{Name: "data-footnotes", Value: true},
		{Name: "class", Value: []string{"footnotes"}},
	},
		label,
		hast.NewText("\n"),
		hast.NewElement("ol", nil, wrap(items, true)...),
		hast.NewText("\n"),
	)
	return one(section), nil
}

func (c *converter) footnoteRef(n *east.FootnoteLink) *hast.Node {
	id := c.footnoteID(n.Index)
	refID := c.opts.ClobberPrefix + "fnref-" + id
	if n.RefIndex > 0 {
		refID += "-" + strconv.Itoa(n.RefIndex+1)
	}
	a := hast.NewElement("a", []hast.Property{
		{Name: "href", Value: "#" + c.opts.ClobberPrefix + "fn-" + id},
		{Name: "id", Value: refID},
		{Name: "data-footnote-ref", Value: true},
		{Name: "aria-describedby", Value: []string{"footnote-label"}},
	}, hast.NewText(strconv.Itoa(n.Index)))
	return hast.NewElement("sup", nil, a)
}

func (c *converter) footnoteBackref(n *east.FootnoteBacklink) []*hast.Node {
	reuse := n.RefIndex + 1
	href := "#" + c.opts.ClobberPrefix + "fnref-" + c.footnoteID(n.Index)
	if reuse > 1 {
		href += "-" + strconv.Itoa(reuse)
	}
	a := hast.NewElement("a", []hast.Property{
		{Name: "href", Value: href},
		{Name: "data-footnote-backref", Value: ""},
		{Name: "aria-label", Value: c.opts.FootnoteBackLabel(n.Index, reuse)},
		{Name: "class", Value: []string{"data-footnote-backref"}},
	}, hast.NewText(c.opts.FootnoteBackContent))
	if reuse > 1 {
		a.Children = append(a.Children, hast.NewElement("sup", nil, hast.NewText(strconv.Itoa(reuse))))
	}
	return []*hast.Node{hast.NewText(" "), a}
}

// ---------------------------------------------------------------------------
// Inlines
// ---------------------------------------------------------------------------

func (c *converter) inlines(parent ast.Node) ([]*hast.Node, error) {
	var out []*hast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		nodes, err := c.inline(n)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			out = appendMerged(out, node)
		}
	}
	return out, nil
}

// appendMerged appends n, joining adjacent text nodes.
func appendMerged(out []*hast.Node, n *hast.Node) []*hast.Node {
	if n.Kind == hast.KindText && len(out) > 0 {
		if last := out[len(out)-1]; last.Kind == hast.KindText {
			last.Value += n.Value
			return out
		}
	}
	return append(out, n)
}

func (c *converter) inline(n ast.Node) ([]*hast.Node, error) {
	switch n := n.(type) {
	case *ast.Text:
		return c.text(n), nil
	case *ast.String:
		return one(hast.NewText(string(n.Value))), nil
	case *ast.CodeSpan:
		return one(hast.NewElement("code", nil, hast.NewText(c.codeSpan(n)))), nil
	case *ast.Emphasis:
		tag := "em"
		if n.Level == 2 {
			tag = "strong"
		}
		return c.wrapInline(tag, nil, n)
	case *ast.Link:
		props := []hast.Property{{Name: "href", Value: string(util.URLEscape(n.Destination, true))}}
		if len(n.Title) > 0 {
			props = append(props, hast.Property{Name: "title", Value: string(n.Title)})
		}
		return c.wrapInline("a", props, n)
	case *ast.Image:
		props := []hast.Property{
			{Name: "src", Value: string(util.URLEscape(n.Destination, true))},
			{Name: "alt", Value: c.plainText(n)},
		}
		if len(n.Title) > 0 {
			props = append(props, hast.Property{Name: "title", Value: string(n.Title)})
		}
		return one(hast.NewElement("img", props)), nil
	case *ast.AutoLink:
		href := string(n.URL(c.src))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		props := []hast.Property{{Name: "href", Value: string(util.URLEscape([]byte(href), false))}}
		return one(hast.NewElement("a", props, hast.NewText(string(n.Label(c.src))))), nil
	case *ast.RawHTML:
		return nil, fmt.Errorf("%w: raw HTML", mdxerr.ErrUnsupportedSyntax)
	case *TextExpression:
		return c.expression(hast.KindTextExpression, n.Code, n.Segments)
	case *JSXTextElement:
		return c.jsxText(n)
	case *JSXTag:
		return nil, errorAt(c.src, n.Tag.Start, "unpaired tag %s", tagString(n.Tag))
	case *east.Strikethrough:
		return c.wrapInline("del", nil, n)
	case *east.TaskCheckBox:
		input := hast.NewElement("input", []hast.Property{
			{Name: "type", Value: "checkbox"},
			{Name: "checked", Value: n.IsChecked},
			{Name: "disabled", Value: true},
		})
		return []*hast.Node{input, hast.NewText(" ")}, nil
	case *east.FootnoteLink:
		return one(c.footnoteRef(n)), nil
	case *east.FootnoteBacklink:
		return c.footnoteBackref(n), nil
	}
	return nil, fmt.Errorf("%w: %s inline", mdxerr.ErrUnsupportedSyntax, n.Kind())
}

func (c *converter) text(n *ast.Text) []*hast.Node {
	value := string(n.Segment.Value(c.src))
	if !n.IsRaw() {
		value = string(util.UnescapePunctuations([]byte(value)))
		value = string(util.ResolveNumericReferences([]byte(value)))
		value = string(util.ResolveEntityNames([]byte(value)))
	}
	switch {
	case n.HardLineBreak():
		return []*hast.Node{hast.NewText(value), hast.NewElement("br", nil), hast.NewText("\n")}
	case n.SoftLineBreak():
		return one(hast.NewText(value + "\n"))
	}
	return one(hast.NewText(value))
}

func (c *converter) codeSpan(n *ast.CodeSpan) string {
	var buf bytes.Buffer
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch t := ch.(type) {
		case *ast.Text:
			v := t.Segment.Value(c.src)
			buf.Write(bytes.ReplaceAll(v, []byte{'\n'}, []byte{' '}))
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	return buf.String()
}

func (c *converter) wrapInline(tag string, props []hast.Property, n ast.Node) ([]*hast.Node, error) {
	children, err := c.inlines(n)
	if err != nil {
		return nil, err
	}
	return one(hast.NewElement(tag, props, children...)), nil
}

func (c *converter) jsxText(n *JSXTextElement) ([]*hast.Node, error) {
	attrs, err := c.attributes(n.Tag, n.Segments)
	if err != nil {
		return nil, err
	}
	children, err := c.inlines(n)
	if err != nil {
		return nil, err
	}
	return one(&hast.Node{
		Kind:       hast.KindJSXTextElement,
		Tag:        n.Tag.Name,
		Attributes: attrs,
		Children:   children,
		Position:   c.position(n.Tag.Start),
	}), nil
}

// ---------------------------------------------------------------------------
// Heading ids
// ---------------------------------------------------------------------------

// assignIDs gives every heading element without an id a slug of its text.
func assignIDs(root *hast.Node) {
	s := slug.New()
	hast.Walk(root, func(n, _ *hast.Node) bool {
		if hast.HeadingLevel(n) == 0 {
			return true
		}
		if _, ok := n.Property("id"); !ok {
			n.SetProperty("id", s.Slug(n.Text()))
		}
		return false
	})
}
