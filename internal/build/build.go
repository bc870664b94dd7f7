// Package build turns the intermediate tree into the canonical element
// tree, running the document's code as it goes.
package build

import (
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"

	"github.com/alnah/go-mdx/internal/attr"
	"github.com/alnah/go-mdx/internal/hast"
	"github.com/alnah/go-mdx/internal/jast"
	"github.com/alnah/go-mdx/internal/mdxerr"
	"github.com/alnah/go-mdx/internal/program"
	"github.com/alnah/go-mdx/internal/slug"
	"github.com/alnah/go-mdx/internal/style"
)

// Evaluator runs document code. *sandbox.Session implements it. Guard
// runs a conversion of an evaluated value, which may call back into
// document code, and reports what it throws.
type Evaluator interface {
	RunModule(ctx context.Context, m *program.Module) error
	Evaluate(ctx context.Context, expr ast.Expression) (goja.Value, error)
	Guard(ctx context.Context, fn func()) error
}

// Heading is a document heading with its anchor id.
type Heading struct {
	Depth int    `json:"depth"`
	Value string `json:"value"`
	ID    string `json:"id"`
}

// Builder converts one document. Code runs in document order, so a
// Builder must not be shared between goroutines.
type Builder struct {
	eval Evaluator
}

// New returns a Builder evaluating code with eval.
func New(eval Evaluator) *Builder {
	return &Builder{eval: eval}
}

// Build converts root and assigns ids to headings. ESM nodes run when
// reached, so their bindings are visible to later expressions only.
func (b *Builder) Build(ctx context.Context, root *hast.Node, headings []hast.Heading) (*jast.Element, []Heading, error) {
	if root == nil || root.Kind != hast.KindRoot {
		return nil, nil, fmt.Errorf("%w: expected a root node", mdxerr.ErrInputValidation)
	}
	children, err := b.all(ctx, root.Children)
	if err != nil {
		return nil, nil, err
	}

	s := slug.New()
	out := make([]Heading, len(headings))
	for i, h := range headings {
		out[i] = Heading{Depth: h.Depth, Value: h.Value, ID: s.Slug(h.Value)}
	}
	return jast.NewElement("", jast.Props{}, children), out, nil
}

func (b *Builder) all(ctx context.Context, nodes []*hast.Node) ([]jast.Node, error) {
	out := make([]jast.Node, 0, len(nodes))
	for _, n := range nodes {
		node, ok, err := b.one(ctx, n)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, node)
		}
	}
	return out, nil
}

// one converts a node. ok is false for nodes contributing nothing.
func (b *Builder) one(ctx context.Context, n *hast.Node) (jast.Node, bool, error) {
	switch n.Kind {
	case hast.KindRoot:
		children, err := b.all(ctx, n.Children)
		if err != nil {
			return nil, false, err
		}
		return jast.NewElement("", jast.Props{}, children), true, nil

	case hast.KindElement:
		children, err := b.all(ctx, n.Children)
		if err != nil {
			return nil, false, err
		}
		return jast.NewElement(n.Tag, properties(n.Properties), children), true, nil

	case hast.KindText:
		return n.Value, true, nil

	case hast.KindComment, hast.KindDoctype, hast.KindRaw:
		return nil, false, nil

	case hast.KindESM:
		if n.Module == nil {
			return nil, false, nil
		}
		return nil, false, b.eval.RunModule(ctx, n.Module)

	case hast.KindFlowExpression, hast.KindTextExpression:
		if n.Expression == nil {
			return nil, false, nil
		}
		v, err := b.eval.Evaluate(ctx, n.Expression)
		if err != nil {
			return nil, false, err
		}
		var node jast.Node
		var ok bool
		err = b.eval.Guard(ctx, func() { node, ok = evaluated(v) })
		if err != nil {
			return nil, false, err
		}
		return node, ok, nil

	case hast.KindJSXFlowElement, hast.KindJSXTextElement:
		props, err := b.attributes(ctx, n.Attributes)
		if err != nil {
			return nil, false, err
		}
		children, err := b.all(ctx, n.Children)
		if err != nil {
			return nil, false, err
		}
		return jast.NewElement(n.Tag, props, children), true, nil
	}
	return nil, false, nil
}

// properties maps HTML properties to React props.
func properties(props []hast.Property) jast.Props {
	out := jast.Props{}
	for _, p := range props {
		if p.Name == "children" {
			continue
		}
		if css, ok := p.Value.(string); ok && p.Name == "style" {
			out.Set("style", style.Parse(css))
			continue
		}
		value := p.Value
		if list, ok := value.([]string); ok {
			value = strings.Join(list, " ")
		}
		out.Set(attr.ReactName(p.Name), value)
	}
	return out
}

func (b *Builder) attributes(ctx context.Context, attrs []hast.Attribute) (jast.Props, error) {
	props := jast.Props{}
	for _, a := range attrs {
		switch a.Kind {
		case hast.AttrString:
			props.Set(a.Name, a.Value)
		case hast.AttrBoolean:
			props.Set(a.Name, true)
		case hast.AttrExpression:
			if a.Expression == nil {
				continue
			}
			v, err := b.eval.Evaluate(ctx, a.Expression)
			if err != nil {
				return nil, err
			}
			var value any
			var ok bool
			if err := b.eval.Guard(ctx, func() { value, ok = propValue(v) }); err != nil {
				return nil, err
			}
			if ok {
				props.Set(a.Name, value)
			}
		case hast.AttrSpread:
			v, err := b.eval.Evaluate(ctx, a.Expression)
			if err != nil {
				return nil, err
			}
			if obj, ok := v.(*goja.Object); ok {
				if err := b.eval.Guard(ctx, func() { mergeProps(&props, obj) }); err != nil {
					return nil, err
				}
			}
		}
	}
	return props, nil
}
