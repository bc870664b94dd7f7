package build_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdx/internal/build"
	"github.com/alnah/go-mdx/internal/hast"
	"github.com/alnah/go-mdx/internal/markup"
	"github.com/alnah/go-mdx/internal/mdxerr"
	"github.com/alnah/go-mdx/internal/sandbox"
)

func newBuilder(t *testing.T, src string) *build.Builder {
	t.Helper()
	s, err := sandbox.New(sandbox.Modules{}, sandbox.WithSource("test.mdx", src))
	if err != nil {
		t.Fatalf("sandbox.New() unexpected error: %v", err)
	}
	return build.New(s)
}

func compile(t *testing.T, src string) (string, []build.Heading, error) {
	t.Helper()
	root, headings, err := markup.New(nil, markup.Options{}).Parse("test.mdx", []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", src, err)
	}
	tree, out, err := newBuilder(t, src).Build(context.Background(), root, headings)
	if err != nil {
		return "", nil, err
	}
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	return string(data), out, nil
}

// ---------------------------------------------------------------------------
// TestBuild - Documents
// ---------------------------------------------------------------------------

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "markdown",
			src:  "# Hi\n\nText",
			want: `[null,{},[["h1",{"id":"hi"},["Hi"]],"\n",["p",{},["Text"]]]]`,
		},
		{
			name: "number expression",
			src:  "{1 + 1}",
			want: `[null,{},[2]]`,
		},
		{
			name: "array keeps strings and numbers",
			src:  `{[1, "a", true, null]}`,
			want: `[null,{},[[null,{},[1,"a"]]]]`,
		},
		{
			name: "array with one survivor is unwrapped",
			src:  `{["only", false]}`,
			want: `[null,{},["only"]]`,
		},
		{
			name: "empty array is an empty group",
			src:  "{[]}",
			want: `[null,{},[[null,{}]]]`,
		},
		{
			name: "array without survivors is an empty group",
			src:  "{[true, {}]}",
			want: `[null,{},[[null,{}]]]`,
		},
		{
			name: "bigint expression is dropped",
			src:  "{10n}",
			want: `[null,{}]`,
		},
		{
			name: "boolean expression is dropped",
			src:  "{true}",
			want: `[null,{}]`,
		},
		{
			name: "tag literal in expression",
			src:  "{<b>c</b>}",
			want: `[null,{},[["b",{},["c"]]]]`,
		},
		{
			name: "module bindings reach later expressions",
			src:  "export const n = 3\n\n{n * 2}",
			want: `[null,{},["\n",6]]`,
		},
		{
			name: "attributes",
			src:  "export const rest = {a: 1, f: () => 1, u: undefined}\n\n<Card title=\"A\" hidden count={1 + 1} {...rest} />",
			want: `[null,{},["\n",["Card",{"title":"A","hidden":true,"count":2,"a":1}]]]`,
		},
		{
			name: "nested child arrays are flattened",
			src:  `{<A f={() => 1} o={{k: [1, undefined]}}>{[1, [2, "x"]]}{null}</A>}`,
			want: `[null,{},[["A",{"o":{"k":[1,null]}},[1,2,"x",null]]]]`,
		},
		{
			name: "flow element",
			src:  "<Note>\nHello\n</Note>",
			want: `[null,{},[["Note",{},[["p",{},["Hello"]]]]]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := compile(t, tt.src)
			if err != nil {
				t.Fatalf("Build(%q) unexpected error: %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("Build(%q)\n got: %s\nwant: %s", tt.src, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Properties - HTML properties become React props
// ---------------------------------------------------------------------------

func TestBuild_Properties(t *testing.T) {
	t.Parallel()

	root := &hast.Node{Kind: hast.KindRoot, Children: []*hast.Node{
		hast.NewElement("div", []hast.Property{
			{Name: "style", Value: "color: red; font-size: 2px"},
			{Name: "class", Value: []string{"a", "b"}},
			{Name: "tabindex", Value: 1.0},
			{Name: "children", Value: "ignored"},
		}, hast.NewText("t"), &hast.Node{Kind: hast.KindComment, Value: "gone"}),
	}}

	tree, _, err := newBuilder(t, "").Build(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}

	want := `[null,{},[["div",{"style":{"color":"red","fontSize":"2px"},"className":"a b","tabIndex":1},["t"]]]]`
	if string(data) != want {
		t.Errorf("Build()\n got: %s\nwant: %s", data, want)
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Headings - Heading ids
// ---------------------------------------------------------------------------

func TestBuild_Headings(t *testing.T) {
	t.Parallel()

	_, got, err := compile(t, "# A\n\n## A\n\n### Some `code`")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	want := []build.Heading{
		{Depth: 1, Value: "A", ID: "a"},
		{Depth: 2, Value: "A", ID: "a-1"},
		{Depth: 3, Value: "Some code", ID: "some-code"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Errors - Failures
// ---------------------------------------------------------------------------

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	t.Run("undefined identifier", func(t *testing.T) {
		t.Parallel()

		_, _, err := compile(t, "{missing}")
		if !errors.Is(err, mdxerr.ErrEvaluation) {
			t.Errorf("Build() error = %v, want ErrEvaluation", err)
		}
	})

	throwing := []struct {
		name string
		src  string
	}{
		{"attribute", `<A b={(() => { throw new Error("no") })()} />`},
		{"getter in attribute", `<A x={{get y() { throw new Error("g") }}} />`},
		{"getter in tag literal", `{<A x={{get y() { throw new Error("g") }}} />}`},
		{"proxy trap in spread", `<A {...new Proxy({}, {ownKeys() { throw new Error("boom") }})} />`},
	}
	for _, tt := range throwing {
		t.Run("throwing "+tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := compile(t, tt.src)
			if !errors.Is(err, mdxerr.ErrEvaluation) {
				t.Errorf("Build(%q) error = %v, want ErrEvaluation", tt.src, err)
			}
		})
	}

	t.Run("not a root", func(t *testing.T) {
		t.Parallel()

		_, _, err := newBuilder(t, "").Build(context.Background(), hast.NewText("x"), nil)
		if !errors.Is(err, mdxerr.ErrInputValidation) {
			t.Errorf("Build() error = %v, want ErrInputValidation", err)
		}
	})
}
