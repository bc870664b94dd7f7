package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdx "github.com/alnah/go-mdx"
	"github.com/alnah/go-mdx/internal/jast"
)

func props(kv ...any) mdx.Props {
	var p mdx.Props
	for i := 0; i < len(kv); i += 2 {
		p.Set(kv[i].(string), kv[i+1])
	}
	return p
}

// ---------------------------------------------------------------------------
// TestComponents - Built-in page components
// ---------------------------------------------------------------------------

func TestComponents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *mdx.Element
		want string
	}{
		{
			name: "callout defaults to info",
			node: jast.NewElement("Callout", nil, []mdx.Node{"Body"}),
			want: `<details open="" class="callout callout-info"><summary>INFO</summary><div>Body</div></details>`,
		},
		{
			name: "callout with variant and title",
			node: jast.NewElement("Callout", props("variant", "warning", "title", "Careful"), []mdx.Node{"x"}),
			want: `<details open="" class="callout callout-warning"><summary>WARNING (Careful)</summary><div>x</div></details>`,
		},
		{
			name: "callout without children has no body",
			node: jast.NewElement("Callout", props("title", "Empty"), nil),
			want: `<details open="" class="callout callout-info"><summary>INFO (Empty)</summary></details>`,
		},
		{
			name: "callout ignores non-string title",
			node: jast.NewElement("Callout", props("title", 3.0), nil),
			want: `<details open="" class="callout callout-info"><summary>INFO</summary></details>`,
		},
		{
			name: "author",
			node: jast.NewElement("Author", nil, []mdx.Node{jast.NewElement("strong", nil, []mdx.Node{"Ada"})}),
			want: `<div class="author"><strong>Ada</strong></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var b strings.Builder
			if err := mdx.RenderHTML(&b, tt.node, defaultComponents()); err != nil {
				t.Fatalf("RenderHTML() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, b.String()); diff != "" {
				t.Errorf("RenderHTML() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
