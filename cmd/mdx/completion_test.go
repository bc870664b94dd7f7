package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Shell scripts
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		wants []string
	}{
		{ShellBash, []string{"complete -F _mdx mdx", "compile doctor version help completion", "--format|-f) COMPREPLY=($(compgen -W \"json html pdf\"", "--highlight-style"}},
		{ShellZsh, []string{"#compdef mdx", "'compile:Compile MDX documents'", "'--page-size[page size: letter, a4, legal]:value:(letter a4 legal)'", "'--json[JSON output]'"}},
		{ShellFish, []string{"complete -c mdx", "-l output -s o -r", "-l autolink -r -a 'wrap prepend append'", "-l gfm -d"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var b bytes.Buffer
			if err := GenerateCompletion(&b, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(b.String(), want) {
					t.Errorf("script does not contain %q:\n%s", want, b.String())
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, "tcsh")
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("GenerateCompletion() error = %v, want ErrUnsupportedShell", err)
	}
}

func TestExtractFlags_Metadata(t *testing.T) {
	t.Parallel()

	flags := extractFlags(newCompileFlagSet(&compileFlags{}, &bytes.Buffer{}))
	byName := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		byName[f.Long] = f
	}

	if f := byName["watch"]; !f.Bool {
		t.Error("--watch should be a bool flag")
	}
	if f := byName["config"]; f.Short != "c" || f.Meta.FileGlob == "" {
		t.Errorf("--config = %+v", f)
	}
	if f := byName["output"]; !f.Meta.IsDir {
		t.Errorf("--output = %+v", f)
	}
}
