package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds output destination flags.
type outputFlags struct {
	path    string
	format  string
	workers int
	watch   bool
}

// markdownFlags holds syntax extension flags.
type markdownFlags struct {
	gfm           bool
	footnotes     bool
	clobberPrefix string
}

// pluginFlags holds tree plugin flags.
type pluginFlags struct {
	autolink          string
	highlight         bool
	highlightStyle    string
	highlightDark     string
	highlightFallback bool
}

// evalFlags holds document code flags.
type evalFlags struct {
	direct  bool
	timeout time.Duration
}

// pageFlags holds HTML page and PDF layout flags.
type pageFlags struct {
	title       string
	size        string
	orientation string
	margin      float64
	pageNumbers bool
	date        string
}

// assetFlags holds asset-related flags (CSS, templates, custom asset path).
type assetFlags struct {
	style     string // Name or path for CSS
	template  string // Name of the page template
	assetPath string // Override asset directory
	noStyle   bool   // Disable page CSS
}

// compileFlags holds all flags for the compile command.
type compileFlags struct {
	common   commonFlags
	output   outputFlags
	markdown markdownFlags
	plugins  pluginFlags
	eval     evalFlags
	page     pageFlags
	assets   assetFlags

	// set reports whether a flag was given on the command line, so
	// config values survive unset flags.
	set func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: json, html, pdf")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "recompile documents when they change")
}

// addMarkdownFlags adds syntax extension flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.BoolVar(&f.gfm, "gfm", false, "enable GitHub Flavored Markdown")
	fs.BoolVar(&f.footnotes, "footnotes", false, "enable footnotes")
	fs.StringVar(&f.clobberPrefix, "clobber-prefix", "", "prefix of generated ids (default \"user-content-\")")
}

// addPluginFlags adds tree plugin flags to a FlagSet.
func addPluginFlags(fs *flag.FlagSet, f *pluginFlags) {
	fs.StringVar(&f.autolink, "autolink", "", "link headings to their anchor: wrap, prepend, append")
	fs.Lookup("autolink").NoOptDefVal = "prepend"
	fs.BoolVar(&f.highlight, "highlight", false, "highlight fenced code blocks")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style (default \"github\")")
	fs.StringVar(&f.highlightDark, "highlight-dark", "", "chroma style for dark mode")
	fs.BoolVar(&f.highlightFallback, "highlight-fallback", false, "highlight unknown languages as plain text")
}

// addEvalFlags adds document code flags to a FlagSet.
func addEvalFlags(fs *flag.FlagSet, f *evalFlags) {
	fs.BoolVar(&f.direct, "direct", false, "evaluate expressions in place")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-document time limit (e.g., 5s, 1m)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.title, "title", "", "page title when the document has none")
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0-3)")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "print page numbers in the PDF footer")
	fs.StringVar(&f.date, "date", "", "page date: auto, auto:LAYOUT or literal text")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.template, "template", "", "page template name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable page CSS")
}

// newCompileFlagSet builds the compile FlagSet bound to f.
func newCompileFlagSet(f *compileFlags, usage io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addMarkdownFlags(fs, &f.markdown)
	addPluginFlags(fs, &f.plugins)
	addEvalFlags(fs, &f.eval)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printCompileUsage(usage) }
	f.set = func(name string) bool { return fs.Changed(name) }
	return fs
}

// parseCompileFlags parses compile command flags and returns positional args.
func parseCompileFlags(args []string, usage io.Writer) (*compileFlags, []string, error) {
	f := &compileFlags{}
	fs := newCompileFlagSet(f, usage)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
