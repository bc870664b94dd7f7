// Package assets holds the stylesheets and html/template pages that wrap
// rendered documents for HTML and PDF output.
//
// Assets are read from an fs.FS laid out as
//
//	styles/{name}.css
//	templates/{name}.html
//
// EmbeddedLoader reads the tree compiled into the binary. FilesystemLoader
// reads the same layout from a directory and refuses names or symlinks that
// leave it. AssetResolver, used by the mdx command, consults a custom
// directory first and falls back to the embedded tree.
package assets
