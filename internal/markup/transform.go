package markup

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// tagPairer turns sibling opening and closing inline tags into
// JSXTextElement nodes holding the inlines between them.
type tagPairer struct{}

func (tagPairer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var parents []ast.Node
	seen := make(map[ast.Node]bool)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*JSXTag); ok {
			if p := n.Parent(); !seen[p] {
				seen[p] = true
				parents = append(parents, p)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, p := range parents {
		if err := pairTags(p, reader.Source()); err != nil {
			setError(pc, err)
			return
		}
	}
}

func pairTags(parent ast.Node, src []byte) error {
	var stack []*JSXTag
	for c := parent.FirstChild(); c != nil; {
		next := c.NextSibling()
		t, ok := c.(*JSXTag)
		if !ok {
			c = next
			continue
		}

		switch {
		case t.Tag.SelfClosing:
			parent.ReplaceChild(parent, t, &JSXTextElement{Tag: t.Tag, Segments: t.Segments})
		case !t.Tag.Closing:
			stack = append(stack, t)
		default:
			if len(stack) == 0 {
				return errorAt(src, t.Tag.Start, "unexpected closing tag %s", tagString(t.Tag))
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if open.Tag.Name != t.Tag.Name || open.Tag.Fragment != t.Tag.Fragment {
				return errorAt(src, t.Tag.Start, "unexpected closing tag %s, expected a closing tag for %s",
					tagString(t.Tag), tagString(open.Tag))
			}

			el := &JSXTextElement{Tag: open.Tag, Segments: open.Segments}
			for n := open.NextSibling(); n != t; {
				following := n.NextSibling()
				parent.RemoveChild(parent, n)
				el.AppendChild(el, n)
				n = following
			}
			parent.ReplaceChild(parent, open, el)
			parent.RemoveChild(parent, t)
		}
		c = next
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return errorAt(src, open.Tag.Start, "expected a closing tag for %s", tagString(open.Tag))
	}
	return nil
}
