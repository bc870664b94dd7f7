// Package page wraps a rendered document into a standalone HTML page.
package page

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alnah/go-mdx/internal/vdom"
)

// ErrTemplate indicates the page template failed to parse or execute.
var ErrTemplate = errors.New("page template")

// Document is the data handed to the page template.
type Document struct {
	Title string
	Lang  string
	Date  string
	CSS   template.CSS
	Body  template.HTML
}

// Template renders Documents. It is safe for concurrent use.
type Template struct {
	tmpl *template.Template
}

// Parse compiles an html/template page. The template sees a Document.
func Parse(source string) (*Template, error) {
	tmpl, err := template.New("page").Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &Template{tmpl: tmpl}, nil
}

// Options describe one page.
type Options struct {
	Title string
	Lang  string // default "en"
	Date  string // shown above the body when set
	// CSS stylesheets, concatenated in order.
	CSS []string
	// SourceDir resolves relative image and link paths when set.
	SourceDir string
}

// Write renders body into the page and writes it to w.
func (t *Template) Write(w io.Writer, body *vdom.VNode, opts Options) error {
	body, err := RewritePaths(body, opts.SourceDir)
	if err != nil {
		return err
	}
	content, err := vdom.HTML(body)
	if err != nil {
		return err
	}

	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}
	doc := Document{
		Title: opts.Title,
		Lang:  lang,
		Date:  opts.Date,
		CSS:   template.CSS(strings.Join(opts.CSS, "\n")), // #nosec G203 -- stylesheets come from assets and chroma
		Body:  template.HTML(content),                     // #nosec G203 -- escaped by the renderer
	}
	if err := t.tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return nil
}

// String renders body into the page and returns it.
func (t *Template) String(body *vdom.VNode, opts Options) (string, error) {
	var b strings.Builder
	if err := t.Write(&b, body, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}
