package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdx <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  compile    Compile MDX documents to JSON, HTML or PDF (default)")
	fmt.Fprintln(w, "  doctor     Check the compiler and PDF prerequisites")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdx help <command>' for details on a specific command.")
}

// printCompileUsage prints usage for the compile command.
func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdx compile <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile .mdx and .md documents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Document or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>            Output format: json, html, pdf")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --watch                 Recompile documents when they change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --gfm                   GitHub Flavored Markdown")
	fmt.Fprintln(w, "      --footnotes             Footnotes")
	fmt.Fprintln(w, "      --clobber-prefix <s>    Prefix of generated ids")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Plugins:")
	fmt.Fprintln(w, "      --autolink[=<s>]        Heading anchors: wrap, prepend, append")
	fmt.Fprintln(w, "      --highlight             Highlight fenced code blocks")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style (default: github)")
	fmt.Fprintln(w, "      --highlight-dark <s>    Chroma style for dark mode")
	fmt.Fprintln(w, "      --highlight-fallback    Highlight unknown languages as plain text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Evaluation:")
	fmt.Fprintln(w, "      --direct                Evaluate expressions in place")
	fmt.Fprintln(w, "  -t, --timeout <d>           Per-document time limit (e.g., 5s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (HTML and PDF):")
	fmt.Fprintln(w, "      --title <s>             Title when the document has none")
	fmt.Fprintln(w, "  -p, --page-size <s>         Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>       Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>            Margin in inches (0-3)")
	fmt.Fprintln(w, "      --page-numbers          Page numbers in the PDF footer")
	fmt.Fprintln(w, "      --date <value>          Page date: auto, auto:LAYOUT (iso, us, long...) or text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>     CSS style name or file")
	fmt.Fprintln(w, "      --template <name>       Page template name")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom asset directory")
	fmt.Fprintln(w, "      --no-style              Disable page CSS")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 usage or syntax, 3 I/O, 4 browser, 5 evaluation")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "compile":
		printCompileUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdx doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Compile a probe document and check PDF prerequisites.")
	case "completion":
		_ = runCompletion(nil, env)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdx version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdx help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
