package program

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
	"github.com/dop251/goja/unistring"

	"github.com/alnah/go-mdx/internal/mdxerr"
)

const (
	importKeywordLen = len("import ")
	exportKeywordLen = len("export ")
	constKeywordLen  = len("const ")
	fromLen          = len(" from ")
	assignLen        = len(" = ")
	commaLen         = len(", ")
	braceLen         = len("{ ")
)

// span is a half-open range of synthesized text.
type span struct {
	Start, End int
}

// importLayout positions the parts of
//
//	import Default, { a, b } from 'module'
type importLayout struct {
	Default span
	Named   []span
	Source  span
}

func (l importLayout) End() int {
	return l.Source.End
}

func layoutImport(defaultName string, named []string, module string) importLayout {
	var l importLayout
	pos := importKeywordLen
	if defaultName != "" {
		l.Default = span{pos, pos + len(defaultName)}
		pos = l.Default.End
		if len(named) > 0 {
			pos += commaLen
		}
	}
	if len(named) > 0 {
		pos += braceLen
		for i, name := range named {
			if i > 0 {
				pos += commaLen
			}
			l.Named = append(l.Named, span{pos, pos + len(name)})
			pos += len(name)
		}
		pos += braceLen
	}
	pos += fromLen
	l.Source = span{pos, pos + len(module) + 2}
	return l
}

// exportLayout positions the parts of
//
//	export const name = expr
type exportLayout struct {
	Name      span
	ExprStart int
}

func (l exportLayout) End(exprLen int) int {
	return l.ExprStart + exprLen
}

func layoutExport(name string) exportLayout {
	start := exportKeywordLen + constKeywordLen
	return exportLayout{
		Name:      span{start, start + len(name)},
		ExprStart: start + len(name) + assignLen,
	}
}

// assignmentLayout positions the parts of
//
//	object.member = expr
type assignmentLayout struct {
	Object    span
	Member    span
	ExprStart int
}

func (l assignmentLayout) End(exprLen int) int {
	return l.ExprStart + exprLen
}

func layoutAssignment(object, member string) assignmentLayout {
	objectEnd := len(object)
	memberEnd := objectEnd + 1 + len(member)
	return assignmentLayout{
		Object:    span{0, objectEnd},
		Member:    span{objectEnd + 1, memberEnd},
		ExprStart: memberEnd + assignLen,
	}
}

// Import builds `import defaultName, { named... } from 'module'`.
// At least one of defaultName and named is required.
func Import(defaultName string, named []string, module string) (*Module, error) {
	if defaultName == "" && len(named) == 0 {
		return nil, fmt.Errorf("%w: import from %q needs a default or a named specifier", mdxerr.ErrInputValidation, module)
	}
	l := layoutImport(defaultName, named, module)
	decl := &ImportDeclaration{
		Start:   0,
		End:     l.End(),
		Default: defaultName,
		Source:  module,
	}
	for i, name := range named {
		decl.Named = append(decl.Named, ImportSpecifier{
			Imported: name,
			Local:    name,
			Start:    l.Named[i].Start,
			End:      l.Named[i].End,
		})
	}
	return &Module{Body: []Statement{decl}}, nil
}

// ExportConst builds `export const name = expr`.
func ExportConst(name string, expr Expr) *Module {
	l := layoutExport(name)
	init := expr(l.ExprStart)
	decl := &ast.LexicalDeclaration{
		Idx:   idx(exportKeywordLen),
		Token: token.CONST,
		List: []*ast.Binding{{
			Target:      &ast.Identifier{Name: unistring.NewFromString(name), Idx: idx(l.Name.Start)},
			Initializer: init,
		}},
	}
	return &Module{Body: []Statement{&ExportDeclaration{
		Start:       0,
		End:         l.End(length(init)),
		Declaration: decl,
	}}}
}

// MemberAssignment builds `object.member = expr`.
func MemberAssignment(object, member string, expr Expr) *Module {
	l := layoutAssignment(object, member)
	stmt := &ast.ExpressionStatement{Expression: &ast.AssignExpression{
		Operator: token.ASSIGN,
		Left: &ast.DotExpression{
			Left:       &ast.Identifier{Name: unistring.NewFromString(object), Idx: idx(l.Object.Start)},
			Identifier: ast.Identifier{Name: unistring.NewFromString(member), Idx: idx(l.Member.Start)},
		},
		Right: expr(l.ExprStart),
	}}
	return &Module{Body: []Statement{&Script{Statement: stmt}}}
}
