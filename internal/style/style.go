// Package style converts inline CSS declarations into style objects keyed
// the way React expects them.
package style

import (
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"

	"github.com/alnah/go-mdx/internal/jast"
)

var (
	customProperty = regexp.MustCompile(`^--[a-zA-Z0-9_-]+$`)
	msPrefix       = regexp.MustCompile(`^-ms-`)
	hyphenLetter   = regexp.MustCompile(`-([a-z])`)
)

// Parse converts "color: red; font-size: 2px" into ordered props
// {color: "red", fontSize: "2px"}. Comments are dropped and malformed
// declarations are skipped.
func Parse(css string) jast.Props {
	props := jast.Props{}
	for _, d := range declarations(css) {
		name := strings.TrimSpace(d.name.String())
		value := strings.TrimSpace(d.value.String())
		if !d.colon || name == "" || value == "" {
			continue
		}
		props.Set(CamelCase(name), value)
	}
	return props
}

type declaration struct {
	name, value strings.Builder
	colon       bool
}

// declarations cuts css at semicolons outside brackets. The first colon
// of a declaration separates its name from its value.
func declarations(css string) []*declaration {
	l := tcss.NewLexer(parse.NewInputString(css))
	d := &declaration{}
	out := []*declaration{d}
	depth := 0
	for {
		tt, data := l.Next()
		switch tt {
		case tcss.ErrorToken:
			return out
		case tcss.CommentToken:
			continue
		case tcss.SemicolonToken:
			if depth == 0 {
				d = &declaration{}
				out = append(out, d)
				continue
			}
		case tcss.ColonToken:
			if depth == 0 && !d.colon {
				d.colon = true
				continue
			}
		case tcss.FunctionToken, tcss.LeftParenthesisToken, tcss.LeftBracketToken, tcss.LeftBraceToken:
			depth++
		case tcss.RightParenthesisToken, tcss.RightBracketToken, tcss.RightBraceToken:
			if depth > 0 {
				depth--
			}
		}
		if d.colon {
			d.value.Write(data)
		} else {
			d.name.Write(data)
		}
	}
}

// CamelCase converts a CSS property name. Custom properties and names
// without hyphens are returned unchanged. The -ms- prefix loses its
// leading hyphen (msTransform) while other vendor prefixes are
// capitalized (WebkitTransition).
func CamelCase(name string) string {
	if !strings.Contains(name, "-") || customProperty.MatchString(name) {
		return name
	}
	name = strings.ToLower(name)
	name = msPrefix.ReplaceAllString(name, "ms-")
	return hyphenLetter.ReplaceAllStringFunc(name, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// Kebab converts a camelCase style key back to a CSS property name.
func Kebab(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	var b strings.Builder
	if len(key) > 2 && strings.HasPrefix(key, "ms") && key[2] >= 'A' && key[2] <= 'Z' {
		b.WriteByte('-')
	}
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
