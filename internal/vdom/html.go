package vdom

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdx/internal/attr"
	"github.com/alnah/go-mdx/internal/jast"
	"github.com/alnah/go-mdx/internal/style"
)

// voidElements cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// unitless style properties take bare numbers.
var unitless = map[string]bool{
	"flex":       true,
	"flexGrow":   true,
	"flexShrink": true,
	"fontWeight": true,
	"lineHeight": true,
	"opacity":    true,
	"order":      true,
	"zIndex":     true,
	"zoom":       true,
}

// WriteHTML serializes n. Props are written under their HTML names,
// style objects become CSS text and text is escaped.
func WriteHTML(w io.Writer, n *VNode) error {
	if n == nil {
		return nil
	}
	for _, node := range toHTML(n) {
		if err := html.Render(w, node); err != nil {
			return fmt.Errorf("rendering <%s>: %w", node.Data, err)
		}
	}
	return nil
}

// HTML returns the serialization of n.
func HTML(n *VNode) (string, error) {
	var b strings.Builder
	if err := WriteHTML(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func toHTML(n *VNode) []*html.Node {
	switch n.Kind {
	case KindText:
		return []*html.Node{{Type: html.TextNode, Data: n.Text}}
	case KindFragment:
		var out []*html.Node
		for _, k := range n.Kids {
			out = append(out, toHTML(k)...)
		}
		return out
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
		Attr:     attributes(n.Props),
	}
	if voidElements[n.Tag] {
		return []*html.Node{el}
	}
	for _, k := range n.Kids {
		for _, c := range toHTML(k) {
			el.AppendChild(c)
		}
	}
	return []*html.Node{el}
}

func attributes(props jast.Props) []html.Attribute {
	var out []html.Attribute
	for _, p := range props {
		if p.Key == "key" || p.Key == "ref" {
			continue
		}
		name := attr.HTMLName(p.Key)
		if css, ok := p.Value.(jast.Props); ok && p.Key == "style" {
			if text := cssText(css); text != "" {
				out = append(out, html.Attribute{Key: name, Val: text})
			}
			continue
		}
		if val, ok := attrValue(name, p.Value); ok {
			out = append(out, html.Attribute{Key: name, Val: val})
		}
	}
	return out
}

// attrValue returns the text of a prop value. Nested objects, arrays,
// elements and false are not written.
func attrValue(name string, v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return jast.FormatNumber(v), true
	case *big.Int:
		return v.String(), true
	case bool:
		if !v {
			return "", false
		}
		if strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-") {
			return "true", true
		}
		return "", true
	}
	return "", false
}

func cssText(props jast.Props) string {
	var decls []string
	for _, p := range props {
		var value string
		switch v := p.Value.(type) {
		case string:
			value = v
		case float64:
			value = jast.FormatNumber(v)
			if v != 0 && !unitless[p.Key] {
				value += "px"
			}
		default:
			continue
		}
		decls = append(decls, style.Kebab(p.Key)+":"+value)
	}
	return strings.Join(decls, ";")
}
