// Package program builds the module-level programs run by the sandbox.
//
// goja parses and compiles scripts only, so the module statements that
// link bindings between programs (imports and exports) are represented
// here and resolved by the sandbox. Everything else is a goja AST.
// Synthesized programs are never printed: their node positions are
// computed from the length their source text would have.
package program

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
)

// Module is an ordered list of module statements.
type Module struct {
	Body []Statement

	// Declarations are the hoisted var declarations of parsed code.
	Declarations []*ast.VariableDeclaration
}

// Statement is one of *ImportDeclaration, *ExportDeclaration,
// *ExportSpecifiers or *Script.
type Statement interface {
	statement()
}

// ImportDeclaration binds names exported by a pseudo-module.
type ImportDeclaration struct {
	Start, End int
	Default    string
	Namespace  string
	Named      []ImportSpecifier
	Source     string
}

// ImportSpecifier is one `imported as local` pair.
type ImportSpecifier struct {
	Imported, Local string
	Start, End      int
}

// ExportDeclaration runs Declaration and exports the names it declares.
type ExportDeclaration struct {
	Start, End  int
	Declaration ast.Statement
}

// ExportSpecifiers exports existing bindings: export { a, b as c }.
type ExportSpecifiers struct {
	Start, End int
	Specifiers []ExportSpecifier
}

// ExportSpecifier is one `local as exported` pair.
type ExportSpecifier struct {
	Local, Exported string
}

// Script is a plain statement.
type Script struct {
	Statement ast.Statement
}

func (*ImportDeclaration) statement() {}
func (*ExportDeclaration) statement() {}
func (*ExportSpecifiers) statement()  {}
func (*Script) statement()            {}

// Names returns the bindings declared by the exported declaration.
func (d *ExportDeclaration) Names() []string {
	return DeclaredNames(d.Declaration)
}

// DeclaredNames returns the names bound by a declaration statement.
func DeclaredNames(stmt ast.Statement) []string {
	var names []string
	switch s := stmt.(type) {
	case *ast.LexicalDeclaration:
		for _, b := range s.List {
			names = appendTargetNames(names, b.Target)
		}
	case *ast.VariableStatement:
		for _, b := range s.List {
			names = appendTargetNames(names, b.Target)
		}
	case *ast.FunctionDeclaration:
		if s.Function.Name != nil {
			names = append(names, s.Function.Name.Name.String())
		}
	case *ast.ClassDeclaration:
		if s.Class.Name != nil {
			names = append(names, s.Class.Name.Name.String())
		}
	}
	return names
}

func appendTargetNames(names []string, target ast.Expression) []string {
	switch t := target.(type) {
	case *ast.Identifier:
		names = append(names, t.Name.String())
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			names = appendTargetNames(names, el)
		}
		names = appendTargetNames(names, t.Rest)
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			switch p := p.(type) {
			case *ast.PropertyShort:
				names = append(names, p.Name.Name.String())
			case *ast.PropertyKeyed:
				names = appendTargetNames(names, p.Value)
			}
		}
		names = appendTargetNames(names, t.Rest)
	case *ast.AssignExpression:
		names = appendTargetNames(names, t.Left)
	case *ast.Binding:
		names = appendTargetNames(names, t.Target)
	}
	return names
}

// Expr supplies the expression of a synthesized statement. It receives
// the offset at which the expression starts in the statement's text.
type Expr func(start int) ast.Expression

// Value returns an Expr for an expression that keeps its own positions.
func Value(e ast.Expression) Expr {
	return func(int) ast.Expression { return e }
}

// idx converts an offset to a goja position.
func idx(offset int) file.Idx {
	return file.Idx(offset + 1)
}

// length is the text length of an expression according to its positions.
func length(e ast.Expression) int {
	if e == nil {
		return 0
	}
	return int(e.Idx1() - e.Idx0())
}
