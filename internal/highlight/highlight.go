// Package highlight colors fenced code blocks with chroma.
//
// Tokens become span elements carrying chroma's short class names, so a
// page needs the stylesheet from WriteCSS.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mdx/internal/hast"
)

// Name identifies the plugin in diagnostics.
const Name = "highlight"

const languagePrefix = "language-"

// Options configure highlighting.
type Options struct {
	// Style is the chroma style of the stylesheet. Defaults to
	// "github".
	Style string
	// DarkStyle, when set, is added to the stylesheet for
	// prefers-color-scheme: dark.
	DarkStyle string
	// ClassPrefix prefixes every generated class.
	ClassPrefix string
	// Fallback highlights blocks without a known language as plain text
	// instead of leaving them untouched.
	Fallback bool
}

// Plugin highlights pre > code.language-* blocks. It is safe for
// concurrent use.
type Plugin struct {
	opts Options
}

// New returns a highlighting plugin.
func New(opts Options) *Plugin {
	if opts.Style == "" {
		opts.Style = "github"
	}
	return &Plugin{opts: opts}
}

func (p *Plugin) Name() string { return Name }

// Transform replaces the text of each code block with token spans.
func (p *Plugin) Transform(root *hast.Node, file *hast.File) error {
	var err error
	hast.Walk(root, func(n, _ *hast.Node) bool {
		if err != nil {
			return false
		}
		code, lang, ok := codeBlock(n)
		if !ok {
			return true
		}
		var lexer chroma.Lexer
		if lang != "" {
			lexer = lexers.Get(lang)
		}
		if lexer == nil {
			if lang != "" {
				file.Warn(fmt.Sprintf("unknown language %q", lang), n.Position, Name)
			}
			if !p.opts.Fallback {
				return false
			}
			lexer = lexers.Fallback
		}
		var tokens []*hast.Node
		tokens, err = p.tokenise(lexer, code.Text())
		if err != nil {
			err = fmt.Errorf("highlighting %s at %d:%d: %w", lang, n.Position.Line, n.Position.Column, err)
			return false
		}
		code.Children = tokens
		n.SetProperty("class", append(n.ClassNames(), p.opts.ClassPrefix+"chroma"))
		return false
	})
	return err
}

func (p *Plugin) tokenise(lexer chroma.Lexer, text string) ([]*hast.Node, error) {
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return nil, err
	}
	var out []*hast.Node
	for tok := it(); tok != chroma.EOF; tok = it() {
		cls := class(tok.Type)
		if cls == "" {
			out = append(out, hast.NewText(tok.Value))
			continue
		}
		span := hast.NewElement("span", []hast.Property{{Name: "class", Value: []string{p.opts.ClassPrefix + cls}}},
			hast.NewText(tok.Value))
		out = append(out, span)
	}
	return out, nil
}

// class returns the short class of t or of its closest categorized
// parent.
func class(t chroma.TokenType) string {
	for t != 0 {
		if cls, ok := chroma.StandardTypes[t]; ok {
			return cls
		}
		t = t.Parent()
	}
	return chroma.StandardTypes[t]
}

// codeBlock matches a pre element holding a single code element and
// returns the code element and its language.
func codeBlock(n *hast.Node) (*hast.Node, string, bool) {
	if !n.IsElement("pre") || len(n.Children) != 1 || !n.Children[0].IsElement("code") {
		return nil, "", false
	}
	code := n.Children[0]
	for _, c := range code.ClassNames() {
		if lang, ok := strings.CutPrefix(c, languagePrefix); ok {
			return code, strings.ToLower(lang), true
		}
	}
	return code, "", true
}

// WriteCSS writes the stylesheet for the generated classes.
func (p *Plugin) WriteCSS(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true), chromahtml.ClassPrefix(p.opts.ClassPrefix))
	light := styles.Get(p.opts.Style)
	if err := formatter.WriteCSS(w, light); err != nil {
		return fmt.Errorf("writing %s style: %w", p.opts.Style, err)
	}
	if p.opts.DarkStyle == "" {
		return nil
	}
	if _, err := io.WriteString(w, "@media (prefers-color-scheme: dark) {\n"); err != nil {
		return err
	}
	if err := formatter.WriteCSS(w, styles.Get(p.opts.DarkStyle)); err != nil {
		return fmt.Errorf("writing %s style: %w", p.opts.DarkStyle, err)
	}
	_, err := io.WriteString(w, "}\n")
	return err
}
