package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// completionMeta holds completion-specific metadata for flags.
// Flag names and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format":      {Values: []string{"json", "html", "pdf"}},
	"autolink":    {Values: []string{"wrap", "prepend", "append"}},
	"page-size":   {Values: []string{"letter", "a4", "legal"}},
	"orientation": {Values: []string{"portrait", "landscape"}},

	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long  string
	Short string
	Desc  string
	Bool  bool
	Meta  completionMeta
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// extractFlags lists the flags of fs with their completion metadata.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		flags = append(flags, flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
			Bool:  f.Value.Type() == "bool",
			Meta:  flagCompletionMeta[f.Name],
		})
	})
	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "compile", Desc: "Compile MDX documents", Flags: extractFlags(newCompileFlagSet(&compileFlags{}, io.Discard))},
		{Name: "doctor", Desc: "Check the compiler and PDF prerequisites", Flags: []flagDef{{Long: "json", Desc: "JSON output", Bool: true}}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		fmt.Fprintln(env.Stdout, "Usage: mdx completion <bash|zsh|fish>")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "  Bash:  eval \"$(mdx completion bash)\"")
		fmt.Fprintln(env.Stdout, "  Zsh:   eval \"$(mdx completion zsh)\"")
		fmt.Fprintln(env.Stdout, "  Fish:  mdx completion fish > ~/.config/fish/completions/mdx.fish")
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for mdx\n_mdx() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n")
	fmt.Fprintf(&b, "  if [[ $COMP_CWORD -eq 1 ]]; then\n    COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return\n  fi\n", commandNames(cmds))

	b.WriteString("  case \"$prev\" in\n")
	for _, f := range cmds[0].Flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		switch {
		case len(f.Meta.Values) > 0:
			fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return;;\n", pattern, strings.Join(f.Meta.Values, " "))
		case f.Meta.IsDir:
			fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -d -- \"$cur\")); return;;\n", pattern)
		case f.Meta.FileGlob != "":
			fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -f -- \"$cur\")); return;;\n", pattern)
		}
	}
	b.WriteString("  esac\n")

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		var names []string
		for _, f := range c.Flags {
			names = append(names, "--"+f.Long)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W \"%s\" -f -- \"$cur\"));;\n", c.Name, strings.Join(names, " "))
	}
	b.WriteString("    *) COMPREPLY=($(compgen -f -- \"$cur\"));;\n  esac\n}\n")
	b.WriteString("complete -F _mdx mdx\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef mdx\n\n_mdx() {\n  local -a commands\n  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n  if (( CURRENT == 2 )); then\n    _describe 'command' commands\n    return\n  fi\n")
	b.WriteString("  case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		b.WriteString("        '*:file:_files -g \"*.(mdx|md)\"'\n      ;;\n")
	}
	b.WriteString("  esac\n}\n\ncompdef _mdx mdx\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshAction(f flagDef) string {
	switch {
	case f.Bool:
		return ""
	case len(f.Meta.Values) > 0:
		return ":value:(" + strings.Join(f.Meta.Values, " ") + ")"
	case f.Meta.IsDir:
		return ":directory:_files -/"
	case f.Meta.FileGlob != "":
		globs := strings.Split(f.Meta.FileGlob, ",")
		for i, g := range globs {
			globs[i] = strings.TrimPrefix(g, "*.")
		}
		return ":file:_files -g \"*.(" + strings.Join(globs, "|") + ")\""
	}
	return ":value:"
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	return strings.ReplaceAll(s, "]", "\\]")
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for mdx\n")
	fmt.Fprintf(&b, "complete -c mdx -f -n '__fish_use_subcommand' -a '%s'\n", commandNames(cmds))
	for _, c := range cmds {
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c mdx -n '__fish_seen_subcommand_from %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			if !f.Bool {
				b.WriteString(" -r")
			}
			if len(f.Meta.Values) > 0 {
				fmt.Fprintf(&b, " -a '%s'", strings.Join(f.Meta.Values, " "))
			}
			fmt.Fprintf(&b, " -d '%s'\n", strings.ReplaceAll(f.Desc, "'", "\\'"))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
