package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeAsset creates {dir}/{kind}/{file} with content.
func writeAsset(t *testing.T, dir, kind, file, content string) {
	t.Helper()

	sub := filepath.Join(dir, kind)
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("failed to create %s dir: %v", kind, err)
	}
	if err := os.WriteFile(filepath.Join(sub, file), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", file, err)
	}
}

// ---------------------------------------------------------------------------
// TestNewAssetResolver
// ---------------------------------------------------------------------------

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestAssetResolver_Fallback
// ---------------------------------------------------------------------------

func TestAssetResolver_Fallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles", "mystyle.css", "/* custom */")
	writeAsset(t, dir, "styles", "default.css", "/* override */")
	writeAsset(t, dir, "templates", "bare.html", "{{.Body}}")

	resolver, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	tests := []struct {
		name    string
		load    func() (string, error)
		want    string
		wantErr error
	}{
		{
			name: "custom style",
			load: func() (string, error) { return resolver.LoadStyle("mystyle") },
			want: "/* custom */",
		},
		{
			name: "custom overrides embedded style",
			load: func() (string, error) { return resolver.LoadStyle("default") },
			want: "/* override */",
		},
		{
			name: "custom template",
			load: func() (string, error) { return resolver.LoadTemplate("bare") },
			want: "{{.Body}}",
		},
		{
			name:    "missing everywhere",
			load:    func() (string, error) { return resolver.LoadStyle("nonexistent-xyz") },
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "validation error is not fallen back",
			load:    func() (string, error) { return resolver.LoadTemplate("../secret") },
			wantErr: ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("falls back to embedded template", func(t *testing.T) {
		t.Parallel()

		embedded, _ := LoadTemplate(DefaultTemplateName)
		got, err := resolver.LoadTemplate(DefaultTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if got != embedded {
			t.Error("LoadTemplate() did not fall back to the embedded page")
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsNotFoundError
// ---------------------------------------------------------------------------

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("%w: x", ErrStyleNotFound), true},
		{fmt.Errorf("%w: x", ErrTemplateNotFound), true},
		{ErrInvalidAssetName, false},
		{ErrAssetRead, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := isNotFoundError(tt.err); got != tt.want {
			t.Errorf("isNotFoundError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestAssetResolver_ImplementsAssetLoader(t *testing.T) {
	t.Parallel()

	var _ AssetLoader = (*AssetResolver)(nil)
}
