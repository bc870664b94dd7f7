package main

import (
	"fmt"
	"strings"

	mdx "github.com/alnah/go-mdx"
)

// defaultComponents are the components HTML and PDF pages render with.
func defaultComponents() mdx.Components {
	return mdx.Components{
		"Callout": Callout,
		"Author":  Author,
	}
}

// Callout renders a collapsible note: a summary naming the variant
// ("info" by default) and the optional title, then the children.
func Callout(props mdx.Props, children []*mdx.VNode) *mdx.VNode {
	variant := stringProp(props, "variant")
	if variant == "" {
		variant = "info"
	}
	summary := strings.ToUpper(variant)
	if title := stringProp(props, "title"); title != "" {
		summary += fmt.Sprintf(" (%s)", title)
	}

	var attrs mdx.Props
	attrs.Set("open", true)
	attrs.Set("className", "callout callout-"+strings.ToLower(variant))

	var body *mdx.VNode
	if len(children) > 0 {
		body = mdx.NewElement("div", nil, children...)
	}
	return mdx.NewElement("details", attrs,
		mdx.NewElement("summary", nil, mdx.NewText(summary)),
		body,
	)
}

// Author renders its children as a byline.
func Author(_ mdx.Props, children []*mdx.VNode) *mdx.VNode {
	var attrs mdx.Props
	attrs.Set("className", "author")
	return mdx.NewElement("div", attrs, children...)
}

// stringProp returns a string property, or "".
func stringProp(props mdx.Props, key string) string {
	v, _ := props.Get(key)
	s, _ := v.(string)
	return s
}
