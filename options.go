package mdx

import "github.com/yuin/goldmark"

// compilerConfig holds the settings options act on.
type compilerConfig struct {
	markupPlugins []goldmark.Extender
	treePlugins   []TreePlugin
	hypertext     HypertextOptions
	direct        bool
}

// Option configures a Compiler.
type Option func(*compilerConfig)

// WithMarkupPlugins adds goldmark extensions to the MDX grammar, such as
// GFM or Footnotes.
func WithMarkupPlugins(plugins ...goldmark.Extender) Option {
	return func(c *compilerConfig) {
		c.markupPlugins = append(c.markupPlugins, plugins...)
	}
}

// WithTreePlugins adds plugins run on the intermediate tree, in order.
func WithTreePlugins(plugins ...TreePlugin) Option {
	return func(c *compilerConfig) {
		c.treePlugins = append(c.treePlugins, plugins...)
	}
}

// WithHypertextOptions sets the markup to element conversion options.
func WithHypertextOptions(opts HypertextOptions) Option {
	return func(c *compilerConfig) {
		c.hypertext = opts
	}
}

// WithDirectEvaluation reads expression values from the completion value
// of a statement instead of an exported accumulator. Both give the same
// trees.
func WithDirectEvaluation() Option {
	return func(c *compilerConfig) {
		c.direct = true
	}
}
