// Package mdx compiles MDX documents into serializable element trees.
//
// # Quick Start
//
// Create a compiler and compile a document:
//
//	c, err := mdx.NewCompiler(mdx.WithMarkupPlugins(mdx.GFM()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := c.Compile(ctx, mdx.Input{
//	    Path:   "post.mdx",
//	    Source: "---\ntitle: Hello\n---\n\n# {frontmatter.title}\n\n<Callout>Hi</Callout>",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := json.Marshal(result.Tree)
//
// The tree serializes as nested arrays: [tag, props] or
// [tag, props, children], where a null tag groups children without an
// element.
//
// # Compile Pipeline
//
//  1. The YAML frontmatter header is split off and decoded.
//  2. The body is parsed with goldmark and the MDX grammar: ESM blocks,
//     {expressions} and JSX elements next to CommonMark.
//  3. Tree plugins transform the intermediate tree (heading links,
//     syntax highlighting).
//  4. The tree is built into the element tree. Document code runs at this
//     point inside a fresh JavaScript runtime (goja) that can only see the
//     frontmatter and the document's own bindings.
//
// Embedded code is trusted author content. The runtime has no console,
// timers, filesystem or network, but it is not a security boundary.
//
// # Rendering
//
// Render maps a tree onto a virtual DOM with a component map, and
// RenderHTML serializes the result:
//
//	components := mdx.Components{
//	    "Callout": func(props mdx.Props, children []*mdx.VNode) *mdx.VNode {
//	        return mdx.NewElement("aside", nil, children...)
//	    },
//	}
//	err := mdx.RenderHTML(os.Stdout, result.Tree, components)
//
// # Concurrency
//
// A Compiler is safe for concurrent use. Every compile gets its own
// runtime, so documents never see each other's bindings.
package mdx
