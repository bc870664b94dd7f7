package jsx

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/unistring"
)

// MarkerKey is the property holding a marker object's
// [name, attributes, children] triple.
const MarkerKey = "$$jsx"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Transform converts a parsed tag literal into its marker object
// expression:
//
//	{$$jsx: [name | null, {attributes}, [children]]}
//
// Code inside expression containers is parsed from masked and converted
// recursively.
func Transform(name string, masked []byte, el *Element) (ast.Expression, error) {
	b := &bridge{name: name, masked: masked}
	return b.marker(el)
}

type bridge struct {
	name   string
	masked []byte
}

func (b *bridge) marker(el *Element) (ast.Expression, error) {
	var tag ast.Expression = &ast.NullLiteral{Idx: idx(el.Start), Literal: "null"}
	if !el.Fragment {
		tag = stringLit(el.Start, el.Name)
	}
	attrs, err := b.attributes(el)
	if err != nil {
		return nil, err
	}
	children, err := b.children(el)
	if err != nil {
		return nil, err
	}
	triple := &ast.ArrayLiteral{
		LeftBracket:  idx(el.Start),
		RightBracket: idx(el.End - 1),
		Value:        []ast.Expression{tag, attrs, children},
	}
	return &ast.ObjectLiteral{
		LeftBrace:  idx(el.Start),
		RightBrace: idx(el.End - 1),
		Value: []ast.Property{&ast.PropertyKeyed{
			Key:   stringLit(el.Start, MarkerKey),
			Kind:  ast.PropertyKindValue,
			Value: triple,
		}},
	}, nil
}

func (b *bridge) attributes(el *Element) (*ast.ObjectLiteral, error) {
	obj := &ast.ObjectLiteral{LeftBrace: idx(el.Start), RightBrace: idx(el.Start)}
	for _, attr := range el.Attributes {
		if attr.Kind == AttrSpread {
			expr, err := b.required(attr.Code)
			if err != nil {
				return nil, err
			}
			obj.Value = append(obj.Value, &ast.SpreadElement{Expression: expr})
			continue
		}

		var value ast.Expression
		switch attr.Kind {
		case AttrBoolean:
			value = &ast.BooleanLiteral{Idx: idx(el.Start), Literal: "true", Value: true}
		case AttrString:
			value = stringLit(el.Start, attr.Value)
		case AttrExpression:
			expr, err := ParseExpression(b.name, b.masked, attr.Code)
			if err != nil {
				return nil, err
			}
			if expr == nil {
				expr = &ast.Identifier{Name: "undefined", Idx: idx(attr.Code.Start)}
			}
			value = expr
		case AttrElement:
			expr, err := b.marker(attr.Element)
			if err != nil {
				return nil, err
			}
			value = expr
		default:
			return nil, unsupported(b.masked, el.Start, fmt.Sprintf("attribute %q has no translation", attr.Name))
		}
		obj.Value = append(obj.Value, &ast.PropertyKeyed{
			Key:   stringLit(el.Start, attr.Name),
			Kind:  ast.PropertyKindValue,
			Value: value,
		})
	}
	return obj, nil
}

func (b *bridge) children(el *Element) (*ast.ArrayLiteral, error) {
	arr := &ast.ArrayLiteral{LeftBracket: idx(el.Start), RightBracket: idx(el.End - 1)}
	for _, child := range el.Children {
		switch child.Kind {
		case ChildText:
			arr.Value = append(arr.Value, stringLit(el.Start, whitespaceRun.ReplaceAllString(child.Text, " ")))
		case ChildExpression:
			expr, err := ParseExpression(b.name, b.masked, child.Code)
			if err != nil {
				return nil, err
			}
			if expr != nil {
				arr.Value = append(arr.Value, expr)
			}
		case ChildSpread:
			expr, err := b.required(child.Code)
			if err != nil {
				return nil, err
			}
			arr.Value = append(arr.Value, &ast.SpreadElement{Expression: expr})
		case ChildElement:
			expr, err := b.marker(child.Element)
			if err != nil {
				return nil, err
			}
			arr.Value = append(arr.Value, expr)
		default:
			return nil, unsupported(b.masked, el.Start, "child has no translation")
		}
	}
	return arr, nil
}

func (b *bridge) required(code Span) (ast.Expression, error) {
	expr, err := ParseExpression(b.name, b.masked, code)
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, syntaxErr(b.masked, code.Start, "expected an expression after '...'")
	}
	return expr, nil
}

func stringLit(offset int, s string) *ast.StringLiteral {
	return &ast.StringLiteral{
		Idx:     idx(offset),
		Literal: strconv.Quote(s),
		Value:   unistring.NewFromString(s),
	}
}

// rewriter swaps placeholder identifiers for marker objects throughout
// a goja syntax tree.
type rewriter struct {
	markers map[file.Idx]ast.Expression
}

func newRewriter(name string, masked []byte, spans map[file.Idx]Span) (*rewriter, error) {
	r := &rewriter{markers: make(map[file.Idx]ast.Expression, len(spans))}
	b := &bridge{name: name, masked: masked}
	for at, sp := range spans {
		el, err := ParseElement(masked, sp.Start)
		if err != nil {
			return nil, err
		}
		expr, err := b.marker(el)
		if err != nil {
			return nil, err
		}
		r.markers[at] = expr
	}
	return r, nil
}

func (r *rewriter) exprs(list []ast.Expression) {
	for i, e := range list {
		list[i] = r.expr(e)
	}
}

func (r *rewriter) expr(e ast.Expression) ast.Expression {
	if len(r.markers) == 0 {
		return e
	}
	switch n := e.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		if m, ok := r.markers[n.Idx]; ok && len(n.Name) > 0 && n.Name[0] == '$' {
			return m
		}
	case *ast.ArrayLiteral:
		r.exprs(n.Value)
	case *ast.ArrayPattern:
		r.exprs(n.Elements)
		n.Rest = r.expr(n.Rest)
	case *ast.ObjectLiteral:
		r.props(n.Value)
	case *ast.ObjectPattern:
		r.props(n.Properties)
		n.Rest = r.expr(n.Rest)
	case *ast.AssignExpression:
		n.Left = r.expr(n.Left)
		n.Right = r.expr(n.Right)
	case *ast.YieldExpression:
		n.Argument = r.expr(n.Argument)
	case *ast.AwaitExpression:
		n.Argument = r.expr(n.Argument)
	case *ast.BinaryExpression:
		n.Left = r.expr(n.Left)
		n.Right = r.expr(n.Right)
	case *ast.BracketExpression:
		n.Left = r.expr(n.Left)
		n.Member = r.expr(n.Member)
	case *ast.CallExpression:
		n.Callee = r.expr(n.Callee)
		r.exprs(n.ArgumentList)
	case *ast.NewExpression:
		n.Callee = r.expr(n.Callee)
		r.exprs(n.ArgumentList)
	case *ast.ConditionalExpression:
		n.Test = r.expr(n.Test)
		n.Consequent = r.expr(n.Consequent)
		n.Alternate = r.expr(n.Alternate)
	case *ast.DotExpression:
		n.Left = r.expr(n.Left)
	case *ast.PrivateDotExpression:
		n.Left = r.expr(n.Left)
	case *ast.OptionalChain:
		n.Expression = r.expr(n.Expression)
	case *ast.Optional:
		n.Expression = r.expr(n.Expression)
	case *ast.SpreadElement:
		n.Expression = r.expr(n.Expression)
	case *ast.SequenceExpression:
		r.exprs(n.Sequence)
	case *ast.TemplateLiteral:
		n.Tag = r.expr(n.Tag)
		r.exprs(n.Expressions)
	case *ast.UnaryExpression:
		n.Operand = r.expr(n.Operand)
	case *ast.FunctionLiteral:
		r.function(n)
	case *ast.ArrowFunctionLiteral:
		r.params(n.ParameterList)
		switch body := n.Body.(type) {
		case *ast.BlockStatement:
			r.block(body)
		case *ast.ExpressionBody:
			body.Expression = r.expr(body.Expression)
		}
	case *ast.ClassLiteral:
		r.class(n)
	case *ast.Binding:
		r.binding(n)
	case *ast.PropertyKeyed:
		r.property(n)
	case *ast.PropertyShort:
		n.Initializer = r.expr(n.Initializer)
	}
	return e
}

func (r *rewriter) props(list []ast.Property) {
	for _, p := range list {
		switch p := p.(type) {
		case *ast.PropertyKeyed:
			r.property(p)
		case *ast.PropertyShort:
			p.Initializer = r.expr(p.Initializer)
		case *ast.SpreadElement:
			p.Expression = r.expr(p.Expression)
		}
	}
}

func (r *rewriter) property(p *ast.PropertyKeyed) {
	if p.Computed {
		p.Key = r.expr(p.Key)
	}
	p.Value = r.expr(p.Value)
}

func (r *rewriter) function(fn *ast.FunctionLiteral) {
	r.params(fn.ParameterList)
	r.block(fn.Body)
}

func (r *rewriter) params(list *ast.ParameterList) {
	if list == nil {
		return
	}
	for _, b := range list.List {
		r.binding(b)
	}
	list.Rest = r.expr(list.Rest)
}

func (r *rewriter) binding(b *ast.Binding) {
	if b == nil {
		return
	}
	if t, ok := r.expr(b.Target).(ast.BindingTarget); ok {
		b.Target = t
	}
	b.Initializer = r.expr(b.Initializer)
}

func (r *rewriter) bindings(list []*ast.Binding) {
	for _, b := range list {
		r.binding(b)
	}
}

func (r *rewriter) class(c *ast.ClassLiteral) {
	c.SuperClass = r.expr(c.SuperClass)
	for _, el := range c.Body {
		switch el := el.(type) {
		case *ast.FieldDefinition:
			if el.Computed {
				el.Key = r.expr(el.Key)
			}
			el.Initializer = r.expr(el.Initializer)
		case *ast.MethodDefinition:
			if el.Computed {
				el.Key = r.expr(el.Key)
			}
			r.function(el.Body)
		case *ast.ClassStaticBlock:
			r.block(el.Block)
		}
	}
}

func (r *rewriter) block(b *ast.BlockStatement) {
	if b == nil {
		return
	}
	r.stmts(b.List)
}

func (r *rewriter) stmts(list []ast.Statement) {
	for i, s := range list {
		list[i] = r.stmt(s)
	}
}

func (r *rewriter) stmt(s ast.Statement) ast.Statement {
	if len(r.markers) == 0 {
		return s
	}
	switch n := s.(type) {
	case *ast.BlockStatement:
		r.block(n)
	case *ast.CaseStatement:
		n.Test = r.expr(n.Test)
		r.stmts(n.Consequent)
	case *ast.CatchStatement:
		r.block(n.Body)
	case *ast.DoWhileStatement:
		n.Test = r.expr(n.Test)
		n.Body = r.stmt(n.Body)
	case *ast.ExpressionStatement:
		n.Expression = r.expr(n.Expression)
	case *ast.ForInStatement:
		r.forInto(n.Into)
		n.Source = r.expr(n.Source)
		n.Body = r.stmt(n.Body)
	case *ast.ForOfStatement:
		r.forInto(n.Into)
		n.Source = r.expr(n.Source)
		n.Body = r.stmt(n.Body)
	case *ast.ForStatement:
		switch init := n.Initializer.(type) {
		case *ast.ForLoopInitializerExpression:
			init.Expression = r.expr(init.Expression)
		case *ast.ForLoopInitializerVarDeclList:
			r.bindings(init.List)
		case *ast.ForLoopInitializerLexicalDecl:
			r.bindings(init.LexicalDeclaration.List)
		}
		n.Test = r.expr(n.Test)
		n.Update = r.expr(n.Update)
		n.Body = r.stmt(n.Body)
	case *ast.IfStatement:
		n.Test = r.expr(n.Test)
		n.Consequent = r.stmt(n.Consequent)
		n.Alternate = r.stmt(n.Alternate)
	case *ast.LabelledStatement:
		n.Statement = r.stmt(n.Statement)
	case *ast.ReturnStatement:
		n.Argument = r.expr(n.Argument)
	case *ast.SwitchStatement:
		n.Discriminant = r.expr(n.Discriminant)
		for _, c := range n.Body {
			r.stmt(c)
		}
	case *ast.ThrowStatement:
		n.Argument = r.expr(n.Argument)
	case *ast.TryStatement:
		r.block(n.Body)
		if n.Catch != nil {
			r.block(n.Catch.Body)
		}
		r.block(n.Finally)
	case *ast.VariableStatement:
		r.bindings(n.List)
	case *ast.LexicalDeclaration:
		r.bindings(n.List)
	case *ast.WhileStatement:
		n.Test = r.expr(n.Test)
		n.Body = r.stmt(n.Body)
	case *ast.WithStatement:
		n.Object = r.expr(n.Object)
		n.Body = r.stmt(n.Body)
	case *ast.FunctionDeclaration:
		r.function(n.Function)
	case *ast.ClassDeclaration:
		r.class(n.Class)
	}
	return s
}

func (r *rewriter) forInto(into ast.ForInto) {
	switch n := into.(type) {
	case *ast.ForIntoVar:
		r.binding(n.Binding)
	case *ast.ForDeclaration:
		if t, ok := r.expr(n.Target).(ast.BindingTarget); ok {
			n.Target = t
		}
	case *ast.ForIntoExpression:
		n.Expression = r.expr(n.Expression)
	}
}
