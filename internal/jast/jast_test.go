package jast_test

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdx/internal/jast"
)

// ---------------------------------------------------------------------------
// TestNewElement - Tree invariants
// ---------------------------------------------------------------------------

func TestNewElement(t *testing.T) {
	t.Parallel()

	t.Run("drops children prop", func(t *testing.T) {
		t.Parallel()

		el := jast.NewElement("div", jast.Props{{Key: "id", Value: "a"}, {Key: "children", Value: []any{"x"}}}, nil)
		if _, ok := el.Props.Get("children"); ok {
			t.Error("children prop kept, want dropped")
		}
		if diff := cmp.Diff([]string{"id"}, el.Props.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty children become nil", func(t *testing.T) {
		t.Parallel()

		el := jast.NewElement("p", nil, []jast.Node{})
		if el.Children != nil {
			t.Errorf("Children = %#v, want nil", el.Children)
		}
	})
}

// ---------------------------------------------------------------------------
// TestProps - Ordered map operations
// ---------------------------------------------------------------------------

func TestProps(t *testing.T) {
	t.Parallel()

	var p jast.Props
	p.Set("b", 1.0)
	p.Set("a", 2.0)
	p.Set("b", 3.0)

	if diff := cmp.Diff([]string{"b", "a"}, p.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := p.Get("b"); v != 3.0 {
		t.Errorf("Get(b) = %v, want 3", v)
	}

	p.Delete("b")
	if _, ok := p.Get("b"); ok {
		t.Error("Get(b) found after Delete")
	}
}

// ---------------------------------------------------------------------------
// TestMarshalJSON - Interchange shape
// ---------------------------------------------------------------------------

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		el   *jast.Element
		want string
	}{
		{
			name: "empty root omits children",
			el:   jast.Fragment(),
			want: `[null,{}]`,
		},
		{
			name: "props keep insertion order",
			el: jast.NewElement("a", jast.Props{
				{Key: "z", Value: "1"},
				{Key: "a", Value: true},
			}, nil),
			want: `["a",{"z":"1","a":true}]`,
		},
		{
			name: "nested children and primitives",
			el: jast.NewElement("p", nil, []jast.Node{
				"x",
				2.0,
				0.5,
				nil,
				big.NewInt(7),
				jast.NewElement("b", jast.Props{{Key: "style", Value: jast.Props{{Key: "color", Value: "red"}}}}, []jast.Node{"y"}),
			}),
			want: `["p",{},["x",2,0.5,null,7,["b",{"style":{"color":"red"}},["y"]]]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(tt.el)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("json = %s, want %s", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalJSON - Decoding trees
// ---------------------------------------------------------------------------

func TestUnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		src := `[null,{},["hi",["Callout",{"title":"x","icon":["svg",{}]},["body"]],3]]`
		var el jast.Element
		if err := json.Unmarshal([]byte(src), &el); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := json.Marshal(&el)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != src {
			t.Errorf("round trip = %s, want %s", out, src)
		}

		callout := el.Children[1].(*jast.Element)
		if _, ok := mustGet(t, callout.Props, "icon").(*jast.Element); !ok {
			t.Error("element-shaped prop not decoded as *Element")
		}
	})

	t.Run("children prop survives for renderers", func(t *testing.T) {
		t.Parallel()

		var el jast.Element
		if err := json.Unmarshal([]byte(`["p",{"children":["a","b"]}]`), &el); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := el.Props.Get("children"); !ok {
			t.Error("children prop dropped")
		}
	})

	t.Run("large integers become big.Int", func(t *testing.T) {
		t.Parallel()

		var el jast.Element
		if err := json.Unmarshal([]byte(`[null,{},[123456789012345678901234567890]]`), &el); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := el.Children[0].(*big.Int); !ok {
			t.Errorf("child = %T, want *big.Int", el.Children[0])
		}
	})

	invalid := []string{`{}`, `["p"]`, `[1,{}]`, `["p",[]]`, `["p",{},"x"]`, `[""`}
	for _, src := range invalid {
		t.Run("invalid "+src, func(t *testing.T) {
			t.Parallel()

			var el jast.Element
			err := json.Unmarshal([]byte(src), &el)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var syntaxErr *json.SyntaxError
			if !errors.Is(err, jast.ErrInvalidTree) && !errors.As(err, &syntaxErr) {
				t.Errorf("error = %v, want ErrInvalidTree", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFormatNumber - JavaScript-style number text
// ---------------------------------------------------------------------------

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{-0.5, "-0.5"},
		{1e6, "1000000"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		if got := jast.FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func mustGet(t *testing.T, p jast.Props, key string) any {
	t.Helper()
	v, ok := p.Get(key)
	if !ok {
		t.Fatalf("prop %q missing", key)
	}
	return v
}
