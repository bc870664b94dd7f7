// Package sandbox runs document code inside one goja runtime per compile.
//
// A Session sees only the bindings it is given as pseudo-modules. Module
// statements are linked by the session itself: imports become read-only
// globals and exported bindings are copied into an exports snapshot after
// each program runs. Single expressions are evaluated by assigning them to
// a fresh member of the exported __evaluated__ accumulator and reading the
// member back from the snapshot.
package sandbox

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/unistring"

	"github.com/alnah/go-mdx/internal/mdxerr"
	"github.com/alnah/go-mdx/internal/program"
)

const (
	// FrontmatterModule is the pseudo-module exposing the frontmatter.
	FrontmatterModule = "__mdx:define:mdx__"
	// FrontmatterBinding is the name documents use for the frontmatter.
	FrontmatterBinding = "frontmatter"

	accumulator = "__evaluated__"
)

// Modules maps pseudo-module names to their exports.
type Modules map[string]map[string]any

// Option configures a Session.
type Option func(*Session)

// WithSource sets the document the evaluated code comes from. Error
// positions are reported against it.
func WithSource(name, src string) Option {
	return func(s *Session) {
		s.file = file.NewFile(name, src, 1)
	}
}

// WithDirectEvaluation makes Evaluate return the completion value of an
// expression statement instead of reading it back from the accumulator.
func WithDirectEvaluation() Option {
	return func(s *Session) {
		s.direct = true
	}
}

// Session owns one runtime. It is not safe for concurrent use.
type Session struct {
	rt      *goja.Runtime
	modules Modules
	linked  map[string]goja.Value
	exports *goja.Object
	file    *file.File
	direct  bool
	counter int
}

// New creates a session and declares the accumulator.
func New(modules Modules, opts ...Option) (*Session, error) {
	s := &Session{
		rt:      goja.New(),
		modules: modules,
		linked:  make(map[string]goja.Value),
		file:    file.NewFile("", "", 1),
	}
	s.exports = s.rt.NewObject()
	for _, opt := range opts {
		opt(s)
	}

	decl := program.ExportConst(accumulator, func(start int) ast.Expression {
		return &ast.ObjectLiteral{LeftBrace: file.Idx(start + 1), RightBrace: file.Idx(start + 2)}
	})
	if err := s.RunModule(context.Background(), decl); err != nil {
		return nil, err
	}
	return s, nil
}

// Exports returns the snapshot of exported bindings.
func (s *Session) Exports() *goja.Object {
	return s.exports
}

// RunModule links the imports of m, runs its statements as one program
// and copies the exported bindings into the snapshot.
func (s *Session) RunModule(ctx context.Context, m *program.Module) error {
	var (
		body    []ast.Statement
		exports []program.ExportSpecifier
	)
	for _, stmt := range m.Body {
		switch stmt := stmt.(type) {
		case *program.ImportDeclaration:
			if err := s.link(stmt); err != nil {
				return err
			}
		case *program.ExportDeclaration:
			body = append(body, stmt.Declaration)
			for _, name := range stmt.Names() {
				exports = append(exports, program.ExportSpecifier{Local: name, Exported: name})
			}
		case *program.ExportSpecifiers:
			exports = append(exports, stmt.Specifiers...)
		case *program.Script:
			body = append(body, stmt.Statement)
		}
	}

	if len(body) > 0 {
		prog := &ast.Program{Body: body, DeclarationList: m.Declarations, File: s.file}
		if _, err := s.run(ctx, prog); err != nil {
			return err
		}
	}

	for _, spec := range exports {
		v, err := s.binding(ctx, spec.Local)
		if err != nil {
			return err
		}
		if err := s.exports.Set(spec.Exported, v); err != nil {
			return fmt.Errorf("%w: export %s: %v", mdxerr.ErrEvaluation, spec.Exported, err)
		}
	}
	return nil
}

// Evaluate returns the value of expr. A nil expression is undefined.
func (s *Session) Evaluate(ctx context.Context, expr ast.Expression) (goja.Value, error) {
	if expr == nil {
		return goja.Undefined(), nil
	}
	if s.direct {
		prog := &ast.Program{
			Body: []ast.Statement{&ast.ExpressionStatement{Expression: expr}},
			File: s.file,
		}
		return s.run(ctx, prog)
	}

	slot := "$" + strconv.Itoa(s.counter)
	s.counter++
	if err := s.RunModule(ctx, program.MemberAssignment(accumulator, slot, program.Value(expr))); err != nil {
		return nil, err
	}
	acc, ok := s.exports.Get(accumulator).(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not exported", mdxerr.ErrEvaluation, accumulator)
	}
	v := acc.Get(slot)
	if v == nil {
		return goja.Undefined(), nil
	}
	return v, nil
}

// link binds the specifiers of decl as non-writable globals.
func (s *Session) link(decl *program.ImportDeclaration) error {
	exports, ok := s.modules[decl.Source]
	if !ok {
		return fmt.Errorf("%w: unknown module %q", mdxerr.ErrEvaluation, decl.Source)
	}

	bind := func(local, imported string) error {
		v, err := s.imported(decl.Source, imported, exports)
		if err != nil {
			return err
		}
		return s.define(local, v)
	}

	if decl.Default != "" {
		if err := bind(decl.Default, "default"); err != nil {
			return err
		}
	}
	if decl.Namespace != "" {
		if err := s.define(decl.Namespace, s.namespace(decl.Source, exports)); err != nil {
			return err
		}
	}
	for _, spec := range decl.Named {
		if err := bind(spec.Local, spec.Imported); err != nil {
			return err
		}
	}
	return nil
}

// imported converts one export once, so importing it again binds the
// same value.
func (s *Session) imported(module, name string, exports map[string]any) (goja.Value, error) {
	key := module + "\x00" + name
	if v, ok := s.linked[key]; ok {
		return v, nil
	}
	raw, ok := exports[name]
	if !ok {
		return nil, fmt.Errorf("%w: module %q has no export %q", mdxerr.ErrEvaluation, module, name)
	}
	v := s.toValue(raw)
	s.linked[key] = v
	return v, nil
}

func (s *Session) namespace(module string, exports map[string]any) goja.Value {
	key := module + "\x00*"
	if v, ok := s.linked[key]; ok {
		return v
	}
	ns := s.rt.NewObject()
	for _, name := range sortedKeys(exports) {
		v, _ := s.imported(module, name, exports)
		_ = ns.Set(name, v)
	}
	s.linked[key] = ns
	return ns
}

func (s *Session) define(name string, v goja.Value) error {
	err := s.rt.GlobalObject().DefineDataProperty(name, v, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	if err != nil {
		return fmt.Errorf("%w: import %s: %v", mdxerr.ErrEvaluation, name, err)
	}
	return nil
}

// binding reads a top-level binding by name.
func (s *Session) binding(ctx context.Context, name string) (goja.Value, error) {
	prog := &ast.Program{
		Body: []ast.Statement{&ast.ExpressionStatement{
			Expression: &ast.Identifier{Name: unistring.NewFromString(name), Idx: 1},
		}},
		File: s.file,
	}
	return s.run(ctx, prog)
}

// toValue converts host data to plain JavaScript values. Mapping keys are
// sorted so property order is deterministic.
func (s *Session) toValue(v any) goja.Value {
	switch v := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return v
	case map[string]any:
		obj := s.rt.NewObject()
		for _, k := range sortedKeys(v) {
			_ = obj.Set(k, s.toValue(v[k]))
		}
		return obj
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = s.toValue(item)
		}
		return s.rt.NewArray(items...)
	}
	return s.rt.ToValue(v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
