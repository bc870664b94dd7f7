package sandbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"

	"github.com/alnah/go-mdx/internal/jsx"
	"github.com/alnah/go-mdx/internal/mdxerr"
	"github.com/alnah/go-mdx/internal/program"
)

// parseExpr parses src as the content of a {...} container.
func parseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	doc := []byte("{" + src + "}")
	expr, err := jsx.ParseExpression("test.mdx", doc, jsx.Span{Start: 1, End: 1 + len(src)})
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", src, err)
	}
	return expr
}

func parseModule(t *testing.T, src string) *program.Module {
	t.Helper()
	m, err := program.ParseModule("test.mdx", []byte(src), jsx.Span{Start: 0, End: len(src)})
	if err != nil {
		t.Fatalf("ParseModule(%q): %v", src, err)
	}
	return m
}

func newSession(t *testing.T, frontmatter any, opts ...Option) *Session {
	t.Helper()
	s, err := New(Modules{FrontmatterModule: {FrontmatterBinding: frontmatter}}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	imp, err := program.Import("", []string{FrontmatterBinding}, FrontmatterModule)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if err := s.RunModule(context.Background(), imp); err != nil {
		t.Fatalf("RunModule(import): %v", err)
	}
	return s
}

func evalString(t *testing.T, s *Session, src string) string {
	t.Helper()
	v, err := s.Evaluate(context.Background(), parseExpr(t, src))
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
	return v.String()
}

// ---------------------------------------------------------------------------
// TestEvaluate - Side channel and direct evaluation
// ---------------------------------------------------------------------------

func TestEvaluate(t *testing.T) {
	t.Parallel()

	frontmatter := map[string]any{"title": "Hi", "tags": []any{"a", "b"}, "count": int64(2)}
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"frontmatter member", "frontmatter.title", "Hi"},
		{"arithmetic", "frontmatter.count * 21", "42"},
		{"array", "JSON.stringify(frontmatter.tags)", `["a","b"]`},
		{"sorted keys", "Object.keys(frontmatter).join()", "count,tags,title"},
		{"tag literal", `JSON.stringify(<a b="c">x</a>)`, `{"$$jsx":["a",{"b":"c"},["x"]]}`},
		{"arrow function", "[1, 2].map(n => n + 1).join()", "2,3"},
		{"undefined result", "typeof undefined", "undefined"},
	}

	for _, mode := range []struct {
		name string
		opts []Option
	}{
		{"side channel", nil},
		{"direct", []Option{WithDirectEvaluation()}},
	} {
		for _, tt := range tests {
			t.Run(mode.name+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				s := newSession(t, frontmatter, mode.opts...)
				if got := evalString(t, s, tt.expr); got != tt.want {
					t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
				}
			})
		}
	}
}

func TestEvaluate_DistinctSlots(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	evalString(t, s, "'first'")
	evalString(t, s, "'second'")

	acc, ok := s.Exports().Get("__evaluated__").(*goja.Object)
	if !ok {
		t.Fatal("accumulator not exported")
	}
	if got := acc.Get("$0").String(); got != "first" {
		t.Errorf("$0 = %q, want first", got)
	}
	if got := acc.Get("$1").String(); got != "second" {
		t.Errorf("$1 = %q, want second", got)
	}
}

func TestEvaluate_NilExpression(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	v, err := s.Evaluate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !goja.IsUndefined(v) {
		t.Errorf("Evaluate(nil) = %v, want undefined", v)
	}
}

// ---------------------------------------------------------------------------
// TestEvaluate_Errors - Failures wrap ErrEvaluation
// ---------------------------------------------------------------------------

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantMsg string
	}{
		{"undefined name", "missing + 1", "missing is not defined"},
		{"thrown error", "(() => { throw new Error('boom') })()", "boom"},
		{"no console", "console.log(1)", "console is not defined"},
		{"no require", "require('fs')", "require is not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newSession(t, nil)
			_, err := s.Evaluate(context.Background(), parseExpr(t, tt.expr))
			if !errors.Is(err, mdxerr.ErrEvaluation) {
				t.Fatalf("error = %v, want ErrEvaluation", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Evaluate(ctx, parseExpr(t, "(() => { for (;;) {} })()"))
	if !errors.Is(err, mdxerr.ErrEvaluation) {
		t.Errorf("error = %v, want ErrEvaluation", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}

	// The runtime is usable again once the interrupt is cleared.
	if got := evalString(t, s, "1 + 1"); got != "2" {
		t.Errorf("after cancel = %q, want 2", got)
	}
}

// ---------------------------------------------------------------------------
// TestGuard - Conversions that call back into document code
// ---------------------------------------------------------------------------

func TestGuard(t *testing.T) {
	t.Parallel()

	read := func(t *testing.T, ctx context.Context, s *Session, src string) error {
		t.Helper()
		v, err := s.Evaluate(context.Background(), parseExpr(t, src))
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", src, err)
		}
		obj, ok := v.(*goja.Object)
		if !ok {
			t.Fatalf("Evaluate(%q) = %v, want an object", src, v)
		}
		return s.Guard(ctx, func() { obj.Get("y") })
	}

	t.Run("plain read", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, nil)
		if err := read(t, context.Background(), s, "({y: 1})"); err != nil {
			t.Errorf("Guard() unexpected error: %v", err)
		}
	})

	t.Run("throwing getter", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, nil)
		err := read(t, context.Background(), s, `({get y() { throw new Error("g") }})`)
		if !errors.Is(err, mdxerr.ErrEvaluation) {
			t.Fatalf("error = %v, want ErrEvaluation", err)
		}
		if !strings.Contains(err.Error(), "g") {
			t.Errorf("error %q does not carry the thrown message", err)
		}
	})

	t.Run("endless getter", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := read(t, ctx, s, "({get y() { for (;;) {} }})")
		if !errors.Is(err, mdxerr.ErrEvaluation) || !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, want ErrEvaluation and DeadlineExceeded", err)
		}
		if got := evalString(t, s, "1 + 1"); got != "2" {
			t.Errorf("after cancel = %q, want 2", got)
		}
	})

	t.Run("cancelled before start", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := s.Guard(ctx, func() { called = true })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want Canceled", err)
		}
		if called {
			t.Error("Guard() ran fn with a done context")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunModule - Linking and exports
// ---------------------------------------------------------------------------

func TestRunModule(t *testing.T) {
	t.Parallel()

	t.Run("exports are visible to later expressions", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, map[string]any{"name": "mdx"})
		m := parseModule(t, "export const a = 1\nconst b = 2\nexport { b as c }\nexport function greet() { return 'hi ' + frontmatter.name }")
		if err := s.RunModule(context.Background(), m); err != nil {
			t.Fatalf("RunModule: %v", err)
		}
		if got := s.Exports().Get("a").ToInteger(); got != 1 {
			t.Errorf("exports.a = %d, want 1", got)
		}
		if got := s.Exports().Get("c").ToInteger(); got != 2 {
			t.Errorf("exports.c = %d, want 2", got)
		}
		if got := evalString(t, s, "a + b"); got != "3" {
			t.Errorf("a + b = %q, want 3", got)
		}
		if got := evalString(t, s, "greet()"); got != "hi mdx" {
			t.Errorf("greet() = %q", got)
		}
	})

	t.Run("default and namespace imports", func(t *testing.T) {
		t.Parallel()

		s, err := New(Modules{"lib": {"default": "d", "x": int64(1), "y": int64(2)}})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		m := parseModule(t, "import D, * as ns from 'lib'\nimport { x as z } from 'lib'")
		if err := s.RunModule(context.Background(), m); err != nil {
			t.Fatalf("RunModule: %v", err)
		}
		if got := evalString(t, s, "D + Object.keys(ns).join() + z"); got != "ddefault,x,y1" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("imports are read-only", func(t *testing.T) {
		t.Parallel()

		s := newSession(t, nil)
		err := s.RunModule(context.Background(), parseModule(t, "frontmatter = 1"))
		if !errors.Is(err, mdxerr.ErrEvaluation) {
			t.Errorf("error = %v, want ErrEvaluation", err)
		}
	})

	linkErrors := []struct {
		name string
		src  string
	}{
		{"unknown module", "import x from 'nowhere'"},
		{"missing export", "import { nope } from '__mdx:define:mdx__'"},
	}
	for _, tt := range linkErrors {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newSession(t, nil)
			err := s.RunModule(context.Background(), parseModule(t, tt.src))
			if !errors.Is(err, mdxerr.ErrEvaluation) {
				t.Errorf("error = %v, want ErrEvaluation", err)
			}
		})
	}
}

func TestSessions_DoNotShareBindings(t *testing.T) {
	t.Parallel()

	first := newSession(t, nil)
	if err := first.RunModule(context.Background(), parseModule(t, "export const shared = 1")); err != nil {
		t.Fatalf("first: %v", err)
	}

	second := newSession(t, nil)
	if got := evalString(t, second, "typeof shared"); got != "undefined" {
		t.Errorf("typeof shared = %q, want undefined", got)
	}
	if err := second.RunModule(context.Background(), parseModule(t, "export const shared = 2")); err != nil {
		t.Fatalf("second: %v", err)
	}
	if got := evalString(t, first, "shared"); got != "1" {
		t.Errorf("first shared = %q, want 1", got)
	}
}
