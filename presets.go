package mdx

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/alnah/go-mdx/internal/autolink"
	"github.com/alnah/go-mdx/internal/hast"
	"github.com/alnah/go-mdx/internal/highlight"
)

// GFM enables GitHub Flavored Markdown: tables, strikethrough, task lists
// and bare URL autolinks.
func GFM() goldmark.Extender {
	return extension.GFM
}

// Footnotes enables [^label] footnotes. The footnote section is rendered
// at the end of the document with the labels of HypertextOptions.
func Footnotes() goldmark.Extender {
	return extension.Footnote
}

// AutolinkHeadings links headings to their own anchor. An unknown
// behavior makes every compile fail.
func AutolinkHeadings(behavior AutolinkBehavior) TreePlugin {
	p, err := autolink.New(autolink.Options{Behavior: behavior})
	if err != nil {
		return hast.PluginFunc{
			ID: autolink.Name,
			Fn: func(*hast.Node, *hast.File) error {
				return fmt.Errorf("%w: %v", ErrInputValidation, err)
			},
		}
	}
	return p
}

// Highlighter is the syntax highlighting tree plugin. Pages need the
// stylesheet from WriteCSS.
type Highlighter = highlight.Plugin

// Highlight colors fenced code blocks that name a language.
func Highlight(opts HighlightOptions) *Highlighter {
	return highlight.New(opts)
}
