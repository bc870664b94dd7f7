package matter_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdx/internal/matter"
	"github.com/alnah/go-mdx/internal/mdxerr"
)

// ---------------------------------------------------------------------------
// TestExtract - Header detection and decoding
// ---------------------------------------------------------------------------

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantData  any
		wantFound bool
		wantBody  string
	}{
		{
			name:      "LF header",
			input:     "---\ntitle: Hi\n---\nbody",
			wantData:  map[string]any{"title": "Hi"},
			wantFound: true,
			wantBody:  "body",
		},
		{
			name:      "CRLF header",
			input:     "---\r\ntitle: Hi\r\n---\r\nbody",
			wantData:  map[string]any{"title": "Hi"},
			wantFound: true,
			wantBody:  "body",
		},
		{
			name:      "closed by end of text",
			input:     "---\ntitle: Hi\n---",
			wantData:  map[string]any{"title": "Hi"},
			wantFound: true,
			wantBody:  "",
		},
		{
			name:      "empty header is null",
			input:     "---\n---\n# Title",
			wantData:  nil,
			wantFound: true,
			wantBody:  "# Title",
		},
		{
			name:     "no header",
			input:    "# Title\n---\n",
			wantBody: "# Title\n---\n",
		},
		{
			name:     "header not at start",
			input:    "\n---\na: 1\n---\n",
			wantBody: "\n---\na: 1\n---\n",
		},
		{
			name:     "delimiter with trailing text",
			input:    "--- x\na: 1\n---\n",
			wantBody: "--- x\na: 1\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := matter.Extract(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Found != tt.wantFound {
				t.Errorf("Found = %v, want %v", got.Found, tt.wantFound)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if diff := cmp.Diff(tt.wantData, got.Data); diff != "" {
				t.Errorf("Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := matter.Extract("---\ntitle: [unclosed\n---\n")
	if !errors.Is(err, mdxerr.ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

// ---------------------------------------------------------------------------
// TestMasked - Offsets preserved after stripping
// ---------------------------------------------------------------------------

func TestMasked(t *testing.T) {
	t.Parallel()

	input := "---\na: 1\n---\nbody"
	res, err := matter.Extract(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := res.Masked(input)
	want := "   \n    \n   \nbody"
	if got != want {
		t.Errorf("Masked = %q, want %q", got, want)
	}
	if len(got) != len(input) {
		t.Errorf("len = %d, want %d", len(got), len(input))
	}
}
