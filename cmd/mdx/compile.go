package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	mdx "github.com/alnah/go-mdx"
	"github.com/alnah/go-mdx/internal/assets"
	"github.com/alnah/go-mdx/internal/config"
	"github.com/alnah/go-mdx/internal/dateutil"
	"github.com/alnah/go-mdx/internal/fileutil"
	"github.com/alnah/go-mdx/internal/page"
	"github.com/alnah/go-mdx/internal/printer"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrNoDocuments = errors.New("no documents found")
	ErrReadSource  = errors.New("failed to read document")
	ErrReadStyle   = errors.New("failed to read CSS file")
	ErrWriteOutput = errors.New("failed to write output")
)

// compileParams groups what every file of a batch shares.
type compileParams struct {
	compiler   *mdx.Compiler
	format     string
	timeout    time.Duration
	template   *page.Template
	css        []string
	date       string
	components mdx.Components
	page       printer.Page
	quiet      bool
	verbose    bool
}

// runCompileCmd parses flags, runs the compile command and reports
// errors with hints.
func runCompileCmd(args []string, env *Environment) int {
	flags, positional, err := parseCompileFlags(args, env.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		printCompileUsage(env.Stderr)
		return ExitUsage
	}

	configureMaxProcs(flags.common.verbose, env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runCompile(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runCompile orchestrates the compile command.
func runCompile(ctx context.Context, positionalArgs []string, flags *compileFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.output.workers); err != nil {
		return err
	}

	// Load configuration
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputPath := resolveOutputDir(flags.output.path, cfg)
	format := strings.ToLower(cfg.Output.Format)

	files, err := discoverFiles(inputPath, outputPath, format)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 && !flags.output.watch {
		return fmt.Errorf("%w in %s", ErrNoDocuments, inputPath)
	}

	params, err := buildParams(cfg, flags, env.Now())
	if err != nil {
		return err
	}

	poolSize := resolvePoolSize(flags.output.workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := NewPrinterPool(poolSize, func() Printer {
		return env.NewPrinter(cfg.Evaluate.Timeout)
	})
	defer pool.Close()

	results := compileBatch(ctx, pool, files, params)
	failed := printResults(results, params.quiet, params.verbose, env)

	if flags.output.watch {
		return watch(ctx, inputPath, outputPath, format, func(changed []FileToCompile) {
			printResults(compileBatch(ctx, pool, changed, params), params.quiet, params.verbose, env)
		}, env)
	}

	if failed > 0 {
		return batchError(results, failed)
	}
	return nil
}

// batchError summarizes failures, wrapping the first so the exit code
// follows its class.
func batchError(results []CompileResult, failed int) error {
	for _, r := range results {
		if r.Err != nil {
			if len(results) == 1 {
				return r.Err
			}
			return fmt.Errorf("%d of %d documents failed: %w", failed, len(results), r.Err)
		}
	}
	return nil
}

// mergeFlags applies flags given on the command line over cfg.
func mergeFlags(flags *compileFlags, cfg *config.Config) {
	set := flags.set
	if set == nil {
		set = func(string) bool { return false }
	}

	// Output flags
	if flags.output.format != "" {
		cfg.Output.Format = flags.output.format
	}

	// Markdown flags
	if set("gfm") {
		cfg.Markdown.GFM = flags.markdown.gfm
	}
	if set("footnotes") {
		cfg.Markdown.Footnotes = flags.markdown.footnotes
	}
	if flags.markdown.clobberPrefix != "" {
		cfg.Markdown.ClobberPrefix = flags.markdown.clobberPrefix
	}

	// Plugin flags
	if set("autolink") {
		cfg.Autolink.Enabled = true
		if flags.plugins.autolink != "" {
			cfg.Autolink.Behavior = flags.plugins.autolink
		}
	}
	if set("highlight") {
		cfg.Highlight.Enabled = flags.plugins.highlight
	}
	if flags.plugins.highlightStyle != "" {
		cfg.Highlight.Enabled = true
		cfg.Highlight.Style = flags.plugins.highlightStyle
	}
	if flags.plugins.highlightDark != "" {
		cfg.Highlight.Enabled = true
		cfg.Highlight.DarkStyle = flags.plugins.highlightDark
	}
	if set("highlight-fallback") {
		cfg.Highlight.Fallback = flags.plugins.highlightFallback
	}

	// Eval flags
	if set("direct") {
		cfg.Evaluate.Direct = flags.eval.direct
	}
	if set("timeout") {
		cfg.Evaluate.Timeout = flags.eval.timeout
	}

	// Page flags
	if flags.page.title != "" {
		cfg.Page.Title = flags.page.title
	}
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if set("margin") {
		cfg.Page.Margin = flags.page.margin
	}
	if set("page-numbers") {
		cfg.Page.PageNumbers = flags.page.pageNumbers
	}
	if flags.page.date != "" {
		cfg.Page.Date = flags.page.date
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.Assets.Style = flags.assets.style
	}
	if flags.assets.template != "" {
		cfg.Assets.Template = flags.assets.template
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// compilerOptions translates cfg into compiler options.
func compilerOptions(cfg *config.Config) ([]mdx.Option, *mdx.Highlighter) {
	var markup []mdx.Option
	if cfg.Markdown.GFM {
		markup = append(markup, mdx.WithMarkupPlugins(mdx.GFM()))
	}
	if cfg.Markdown.Footnotes {
		markup = append(markup, mdx.WithMarkupPlugins(mdx.Footnotes()))
	}

	opts := append(markup, mdx.WithHypertextOptions(mdx.HypertextOptions{
		ClobberPrefix: cfg.Markdown.ClobberPrefix,
		FootnoteLabel: cfg.Markdown.FootnoteLabel,
	}))

	var hl *mdx.Highlighter
	if cfg.Highlight.Enabled {
		hl = mdx.Highlight(mdx.HighlightOptions{
			Style:       cfg.Highlight.Style,
			DarkStyle:   cfg.Highlight.DarkStyle,
			ClassPrefix: cfg.Highlight.ClassPrefix,
			Fallback:    cfg.Highlight.Fallback,
		})
		opts = append(opts, mdx.WithTreePlugins(hl))
	}
	if cfg.Autolink.Enabled {
		behavior := mdx.AutolinkBehavior(strings.ToLower(cfg.Autolink.Behavior))
		opts = append(opts, mdx.WithTreePlugins(mdx.AutolinkHeadings(behavior)))
	}
	if cfg.Evaluate.Direct {
		opts = append(opts, mdx.WithDirectEvaluation())
	}
	return opts, hl
}

// buildParams creates the compiler and, for page formats, loads the
// stylesheets and the page template.
func buildParams(cfg *config.Config, flags *compileFlags, now time.Time) (*compileParams, error) {
	opts, hl := compilerOptions(cfg)
	compiler, err := mdx.NewCompiler(opts...)
	if err != nil {
		return nil, err
	}

	params := &compileParams{
		compiler:   compiler,
		format:     strings.ToLower(cfg.Output.Format),
		timeout:    cfg.Evaluate.Timeout,
		components: defaultComponents(),
		page: printer.Page{
			Size:        strings.ToLower(cfg.Page.Size),
			Orientation: strings.ToLower(cfg.Page.Orientation),
			Margin:      cfg.Page.Margin,
			PageNumbers: cfg.Page.PageNumbers,
			Title:       cfg.Page.Title,
		},
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
	}
	if params.format == config.FormatJSON {
		return params, nil
	}

	if params.date, err = dateutil.Resolve(cfg.Page.Date, now); err != nil {
		return nil, err
	}

	loader, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}

	if !flags.assets.noStyle {
		css, err := resolveCSSContent(cfg.Assets.Style, loader)
		if err != nil {
			return nil, err
		}
		params.css = append(params.css, css)
	}
	if hl != nil {
		var buf bytes.Buffer
		if err := hl.WriteCSS(&buf); err != nil {
			return nil, fmt.Errorf("highlight stylesheet: %w", err)
		}
		params.css = append(params.css, buf.String())
	}

	source, err := loader.LoadTemplate(cfg.Assets.Template)
	if err != nil {
		return nil, err
	}
	params.template, err = page.Parse(source)
	if err != nil {
		return nil, err
	}
	return params, nil
}

// resolveCSSContent reads style as a file when it looks like a path, and
// loads it by name otherwise.
func resolveCSSContent(style string, loader assets.AssetLoader) (string, error) {
	if style == "" {
		return "", nil
	}
	if fileutil.IsFilePath(style) {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadStyle, err)
		}
		return string(content), nil
	}
	return loader.LoadStyle(style)
}
