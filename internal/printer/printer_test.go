package printer

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

// fakeRenderer records the request instead of starting a browser.
type fakeRenderer struct {
	result  []byte
	err     error
	path    string
	content string
	opts    *proto.PagePrintToPDF
	closed  bool
}

func (f *fakeRenderer) RenderFromFile(_ context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error) {
	f.path = path
	f.opts = opts
	data, _ := os.ReadFile(path)
	f.content = string(data)
	return f.result, f.err
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// TestPrinter_Print
// ---------------------------------------------------------------------------

func TestPrinter_Print(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{result: []byte("%PDF-1.7")}
	p := &Printer{renderer: fake}

	got, err := p.Print(context.Background(), "<p>hello</p>", Page{})
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if string(got) != "%PDF-1.7" {
		t.Errorf("Print() = %q, want PDF bytes", got)
	}
	if fake.content != "<p>hello</p>" {
		t.Errorf("renderer read %q, want the page", fake.content)
	}
	if !strings.HasSuffix(fake.path, ".html") {
		t.Errorf("temp file %q lacks .html extension", fake.path)
	}
	if _, err := os.Stat(fake.path); !os.IsNotExist(err) {
		t.Errorf("temp file %s not removed", fake.path)
	}

	if err := p.Close(); err != nil || !fake.closed {
		t.Errorf("Close() = %v, closed = %v", err, fake.closed)
	}
}

func TestPrinter_Print_Errors(t *testing.T) {
	t.Parallel()

	t.Run("renderer error propagates", func(t *testing.T) {
		t.Parallel()

		p := &Printer{renderer: &fakeRenderer{err: ErrBrowserConnect}}
		_, err := p.Print(context.Background(), "", Page{})
		if !errors.Is(err, ErrBrowserConnect) {
			t.Errorf("Print() error = %v, want ErrBrowserConnect", err)
		}
	})

	t.Run("unknown page size fails before rendering", func(t *testing.T) {
		t.Parallel()

		fake := &fakeRenderer{}
		p := &Printer{renderer: fake}
		_, err := p.Print(context.Background(), "", Page{Size: "a3"})
		if !errors.Is(err, ErrPageSize) {
			t.Errorf("Print() error = %v, want ErrPageSize", err)
		}
		if fake.path != "" {
			t.Error("renderer called despite invalid page")
		}
	})
}

// ---------------------------------------------------------------------------
// TestPage_pdfOptions
// ---------------------------------------------------------------------------

func TestPage_pdfOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       Page
		wantWidth  float64
		wantHeight float64
		wantMargin float64
		wantBottom float64
		wantFooter bool
	}{
		{"defaults to letter", Page{}, 8.5, 11, 0.5, 0.5, false},
		{"a4", Page{Size: "A4"}, 8.27, 11.69, 0.5, 0.5, false},
		{"legal landscape", Page{Size: "legal", Orientation: "landscape"}, 14, 8.5, 0.5, 0.5, false},
		{"custom margin", Page{Margin: 1}, 8.5, 11, 1, 1, false},
		{"page numbers grow bottom margin", Page{PageNumbers: true}, 8.5, 11, 0.5, 0.75, true},
		{"title only", Page{Title: "Doc", Margin: 1}, 8.5, 11, 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, err := tt.page.pdfOptions()
			if err != nil {
				t.Fatalf("pdfOptions() error = %v", err)
			}
			if *opts.PaperWidth != tt.wantWidth || *opts.PaperHeight != tt.wantHeight {
				t.Errorf("paper = %vx%v, want %vx%v", *opts.PaperWidth, *opts.PaperHeight, tt.wantWidth, tt.wantHeight)
			}
			if *opts.MarginTop != tt.wantMargin || *opts.MarginLeft != tt.wantMargin {
				t.Errorf("margin = %v, want %v", *opts.MarginTop, tt.wantMargin)
			}
			if *opts.MarginBottom != tt.wantBottom {
				t.Errorf("bottom margin = %v, want %v", *opts.MarginBottom, tt.wantBottom)
			}
			if opts.DisplayHeaderFooter != tt.wantFooter {
				t.Errorf("DisplayHeaderFooter = %v, want %v", opts.DisplayHeaderFooter, tt.wantFooter)
			}
			if !opts.PrintBackground {
				t.Error("PrintBackground = false, want true")
			}
		})
	}
}

func TestFooterTemplate(t *testing.T) {
	t.Parallel()

	got := footerTemplate(Page{PageNumbers: true, Title: "Q&A <draft>"}, 0.5)

	for _, want := range []string{`class="pageNumber"`, `class="totalPages"`, "Q&amp;A &lt;draft&gt;", "0.50in"} {
		if !strings.Contains(got, want) {
			t.Errorf("footerTemplate() = %q, missing %q", got, want)
		}
	}
}

func TestRodRenderer_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &rodRenderer{timeout: DefaultTimeout}
	_, err := r.RenderFromFile(ctx, "/nonexistent.html", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFromFile() error = %v, want context.Canceled", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() on unstarted renderer = %v", err)
	}
}
