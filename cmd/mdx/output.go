package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	mdx "github.com/alnah/go-mdx"
	"github.com/alnah/go-mdx/internal/config"
	"github.com/alnah/go-mdx/internal/page"
)

// jsonDocument is the JSON output of one document.
type jsonDocument struct {
	Frontmatter any           `json:"frontmatter"`
	Headings    []mdx.Heading `json:"headings"`
	Tree        *mdx.Element  `json:"tree"`
}

// encodeOutput serializes a compiled document in the configured format.
func encodeOutput(ctx context.Context, prn Printer, res *mdx.Result, f FileToCompile, params *compileParams) ([]byte, error) {
	switch params.format {
	case config.FormatHTML:
		html, err := renderPage(res, f, params)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	case config.FormatPDF:
		html, err := renderPage(res, f, params)
		if err != nil {
			return nil, err
		}
		opts := params.page
		if opts.Title != "" || opts.PageNumbers {
			opts.Title = documentTitle(res, f, params.page.Title)
		}
		return prn.Print(ctx, html, opts)
	default:
		return encodeJSON(res)
	}
}

// encodeJSON writes the frontmatter, headings and element tree.
func encodeJSON(res *mdx.Result) ([]byte, error) {
	headings := res.Headings
	if headings == nil {
		headings = []mdx.Heading{}
	}
	data, err := json.MarshalIndent(jsonDocument{
		Frontmatter: res.Frontmatter,
		Headings:    headings,
		Tree:        res.Tree,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// renderPage renders the tree with the built-in components into the page
// template. Relative links resolve against the document directory.
func renderPage(res *mdx.Result, f FileToCompile, params *compileParams) (string, error) {
	body := mdx.Render(res.Tree, params.components)

	sourceDir, err := filepath.Abs(filepath.Dir(f.InputPath))
	if err != nil {
		return "", err
	}

	opts := page.Options{
		Title:     documentTitle(res, f, params.page.Title),
		Lang:      frontmatterString(res.Frontmatter, "lang"),
		Date:      params.date,
		CSS:       params.css,
		SourceDir: sourceDir,
	}
	if date := frontmatterString(res.Frontmatter, "date"); date != "" {
		opts.Date = date
	}
	if params.format == config.FormatHTML {
		// Pages written next to their source keep relative links.
		outDir, err := filepath.Abs(filepath.Dir(f.OutputPath))
		if err == nil && outDir == sourceDir {
			opts.SourceDir = ""
		}
	}
	return params.template.String(body, opts)
}

// documentTitle picks the frontmatter title, then the first top-level
// heading, then fallback, then the file name.
func documentTitle(res *mdx.Result, f FileToCompile, fallback string) string {
	if title := frontmatterString(res.Frontmatter, "title"); title != "" {
		return title
	}
	for _, h := range res.Headings {
		if h.Depth == 1 && h.Value != "" {
			return h.Value
		}
	}
	if fallback != "" {
		return fallback
	}
	base := filepath.Base(f.InputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// frontmatterString returns a string field of a mapping header.
func frontmatterString(fm any, key string) string {
	m, ok := fm.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
