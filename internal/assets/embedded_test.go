package assets

import (
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_LoadStyle
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		styleName   string
		wantErr     error
		wantContain string
	}{
		{"loads default style", DefaultStyleName, nil, ".mdx-document"},
		{"loads minimal style", "minimal", nil, "font-family"},
		{"nonexistent style", "nonexistent-style-xyz", ErrStyleNotFound, ""},
		{"empty name", "", ErrInvalidAssetName, ""},
		{"path traversal", "../secret", ErrInvalidAssetName, ""},
		{"backslash traversal", "..\\secret", ErrInvalidAssetName, ""},
		{"name with dot", "style.name", ErrInvalidAssetName, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadStyle(%q) content should contain %q", tt.styleName, tt.wantContain)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_LoadTemplate
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("page template parses", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadTemplate(DefaultTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		for _, field := range []string{"{{.Title}}", "{{.CSS}}", "{{.Body}}", "{{.Lang}}"} {
			if !strings.Contains(got, field) {
				t.Errorf("page template lacks %s", field)
			}
		}
		if _, err := template.New("page").Parse(got); err != nil {
			t.Errorf("page template does not parse: %v", err)
		}
	})

	t.Run("nonexistent template", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplate("nonexistent-template-xyz")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplate("../page")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestStyles
// ---------------------------------------------------------------------------

func TestStyles(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"default", "minimal"}, Styles()); diff != "" {
		t.Errorf("Styles() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadStyle_PackageLevel(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error = %v", err)
	}
	if _, err := LoadTemplate(DefaultTemplateName); err != nil {
		t.Errorf("LoadTemplate() error = %v", err)
	}
}
