// Package autolink links headings to themselves.
package autolink

import (
	"fmt"

	"github.com/alnah/go-mdx/internal/hast"
)

// Name identifies the plugin in diagnostics.
const Name = "autolink-headings"

// Behavior says where the link goes.
type Behavior string

const (
	// Wrap moves the heading content into the link.
	Wrap Behavior = "wrap"
	// Prepend inserts the link before the heading content.
	Prepend Behavior = "prepend"
	// Append inserts the link after the heading content.
	Append Behavior = "append"
)

// Options configure the plugin.
type Options struct {
	// Behavior defaults to Prepend.
	Behavior Behavior
	// Properties of the link besides href. Prepend and Append default to
	// aria-hidden and a negative tabindex.
	Properties []hast.Property
	// Content builds the children of inserted links. Defaults to an
	// icon span. Unused by Wrap.
	Content func(heading *hast.Node) []*hast.Node
}

// Plugin adds links to headings with an id. It is safe for concurrent
// use.
type Plugin struct {
	opts Options
}

// New returns the plugin, or an error for an unknown behavior.
func New(opts Options) (*Plugin, error) {
	switch opts.Behavior {
	case "":
		opts.Behavior = Prepend
	case Wrap, Prepend, Append:
	default:
		return nil, fmt.Errorf("unknown autolink behavior %q", opts.Behavior)
	}
	if opts.Properties == nil && opts.Behavior != Wrap {
		opts.Properties = []hast.Property{
			{Name: "aria-hidden", Value: "true"},
			{Name: "tabindex", Value: -1.0},
		}
	}
	if opts.Content == nil {
		opts.Content = func(*hast.Node) []*hast.Node {
			return []*hast.Node{hast.NewElement("span", []hast.Property{{Name: "class", Value: []string{"icon", "icon-link"}}})}
		}
	}
	return &Plugin{opts: opts}, nil
}

func (p *Plugin) Name() string { return Name }

// Transform links every heading that has an id.
func (p *Plugin) Transform(root *hast.Node, _ *hast.File) error {
	hast.Walk(root, func(n, _ *hast.Node) bool {
		if hast.HeadingLevel(n) == 0 {
			return true
		}
		id, ok := n.Property("id")
		if s, isString := id.(string); !ok || !isString || s == "" {
			return false
		}
		p.link(n, "#"+id.(string))
		return false
	})
	return nil
}

func (p *Plugin) link(heading *hast.Node, href string) {
	props := append([]hast.Property{{Name: "href", Value: href}}, p.opts.Properties...)
	switch p.opts.Behavior {
	case Wrap:
		heading.Children = []*hast.Node{hast.NewElement("a", props, heading.Children...)}
	case Prepend:
		a := hast.NewElement("a", props, p.opts.Content(heading)...)
		heading.Children = append([]*hast.Node{a}, heading.Children...)
	case Append:
		a := hast.NewElement("a", props, p.opts.Content(heading)...)
		heading.Children = append(heading.Children, a)
	}
}
