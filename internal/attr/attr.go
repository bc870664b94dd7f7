// Package attr maps HTML attribute names to React prop names and back.
package attr

import "strings"

var reactNames = map[string]string{
	"accept-charset":  "acceptCharset",
	"accesskey":       "accessKey",
	"allowfullscreen": "allowFullScreen",
	"autocomplete":    "autoComplete",
	"autofocus":       "autoFocus",
	"autoplay":        "autoPlay",
	"cellpadding":     "cellPadding",
	"cellspacing":     "cellSpacing",
	"charset":         "charSet",
	"class":           "className",
	"colspan":         "colSpan",
	"contenteditable": "contentEditable",
	"crossorigin":     "crossOrigin",
	"datetime":        "dateTime",
	"enctype":         "encType",
	"for":             "htmlFor",
	"formaction":      "formAction",
	"frameborder":     "frameBorder",
	"hreflang":        "hrefLang",
	"http-equiv":      "httpEquiv",
	"inputmode":       "inputMode",
	"maxlength":       "maxLength",
	"minlength":       "minLength",
	"novalidate":      "noValidate",
	"playsinline":     "playsInline",
	"readonly":        "readOnly",
	"referrerpolicy":  "referrerPolicy",
	"rowspan":         "rowSpan",
	"spellcheck":      "spellCheck",
	"srcset":          "srcSet",
	"tabindex":        "tabIndex",
	"usemap":          "useMap",
}

var htmlNames = func() map[string]string {
	m := make(map[string]string, len(reactNames))
	for html, react := range reactNames {
		m[react] = html
	}
	return m
}()

// ReactName returns the React prop name of an HTML attribute. data- and
// aria- attributes keep their name; other hyphenated names are camelCased.
func ReactName(name string) string {
	if react, ok := reactNames[strings.ToLower(name)]; ok {
		return react
	}
	if strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-") || !strings.Contains(name, "-") {
		return name
	}
	var b strings.Builder
	upper := false
	for _, r := range name {
		switch {
		case r == '-':
			upper = true
		case upper:
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HTMLName returns the HTML attribute name of a React prop.
func HTMLName(name string) string {
	if html, ok := htmlNames[name]; ok {
		return html
	}
	return name
}
