// Package printer prints HTML pages to PDF with headless Chrome driven by
// go-rod. Rod downloads Chromium on first use when none is installed.
package printer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdx/internal/fileutil"
	"github.com/alnah/go-mdx/internal/process"
)

// Sentinel errors for printing.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrPageSize       = errors.New("unknown page size")
)

// DefaultTimeout bounds page loading when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// Page describes the printed sheet.
type Page struct {
	Size        string  // "letter" (default), "a4", "legal"
	Orientation string  // "portrait" (default), "landscape"
	Margin      float64 // inches, default 0.5
	// PageNumbers prints "n/total" in the footer.
	PageNumbers bool
	// Title is printed in the footer next to the page number.
	Title string
}

// sizes in inches, portrait.
var sizes = map[string][2]float64{
	"letter": {8.5, 11},
	"a4":     {8.27, 11.69},
	"legal":  {8.5, 14},
}

const (
	defaultMargin  = 0.5
	footerMargin   = 0.75
	footerFontSize = "9px"
)

// dimensions returns width and height in inches.
func (p Page) dimensions() (float64, float64, error) {
	name := strings.ToLower(p.Size)
	if name == "" {
		name = "letter"
	}
	size, ok := sizes[name]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrPageSize, p.Size)
	}
	w, h := size[0], size[1]
	if strings.EqualFold(p.Orientation, "landscape") {
		w, h = h, w
	}
	return w, h, nil
}

func (p Page) hasFooter() bool {
	return p.PageNumbers || p.Title != ""
}

// pdfOptions builds the Chrome print request for p.
func (p Page) pdfOptions() (*proto.PagePrintToPDF, error) {
	w, h, err := p.dimensions()
	if err != nil {
		return nil, err
	}
	margin := p.Margin
	if margin == 0 {
		margin = defaultMargin
	}
	bottom := margin
	if p.hasFooter() && bottom < footerMargin {
		bottom = footerMargin
	}

	opts := &proto.PagePrintToPDF{
		PaperWidth:      &w,
		PaperHeight:     &h,
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(bottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
	if p.hasFooter() {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = "<span></span>"
		opts.FooterTemplate = footerTemplate(p, margin)
	}
	return opts, nil
}

// footerTemplate uses Chrome's pageNumber and totalPages classes.
func footerTemplate(p Page, margin float64) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, html.EscapeString(p.Title))
	}
	if p.PageNumbers {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	return fmt.Sprintf(`<div style="font-size: %s; color: #888; width: 100%%; display: flex; justify-content: space-between; padding: 0 %.2fin;">%s</div>`,
		footerFontSize, margin, strings.Join(parts, "<span></span>"))
}

func floatPtr(v float64) *float64 {
	return &v
}

// renderer prints a local HTML file.
type renderer interface {
	RenderFromFile(ctx context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Printer converts HTML pages to PDF. A Printer owns one browser and is
// not safe for concurrent use; callers keep one per worker.
type Printer struct {
	renderer renderer
}

// New returns a Printer whose browser starts on first use.
func New(timeout time.Duration) *Printer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Printer{renderer: &rodRenderer{timeout: timeout}}
}

// Print renders the HTML page to PDF bytes.
func (p *Printer) Print(ctx context.Context, page string, opts Page) ([]byte, error) {
	pdfOpts, err := opts.pdfOptions()
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return p.renderer.RenderFromFile(ctx, path, pdfOpts)
}

// Close shuts the browser down.
func (p *Printer) Close() error {
	return p.renderer.Close()
}

// rodRenderer prints through a lazily launched Chrome.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		r.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

func (r *rodRenderer) RenderFromFile(ctx context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// Close closes the browser and kills its process group, which also
// reaps Chrome's renderer and GPU helpers.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.kill(r.launcher)
	r.browser = nil
	r.launcher = nil
	return err
}

func (r *rodRenderer) kill(l *launcher.Launcher) {
	if l == nil {
		return
	}
	if pid := l.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	l.Kill()
	l.Cleanup()
}
