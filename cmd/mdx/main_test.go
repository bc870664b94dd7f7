package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", []string{"mdx"}, ExitUsage, "", "Usage: mdx <command>"},
		{"version", []string{"mdx", "version"}, ExitSuccess, "mdx dev", ""},
		{"version flag", []string{"mdx", "--version"}, ExitSuccess, "mdx dev", ""},
		{"help", []string{"mdx", "help"}, ExitSuccess, "Commands:", ""},
		{"help compile", []string{"mdx", "help", "compile"}, ExitSuccess, "--highlight-style", ""},
		{"help doctor", []string{"mdx", "help", "doctor"}, ExitSuccess, "mdx doctor [--json]", ""},
		{"help unknown", []string{"mdx", "help", "nope"}, ExitSuccess, "", "Unknown command: nope"},
		{"compile help flag", []string{"mdx", "compile", "--help"}, ExitSuccess, "Usage: mdx compile", ""},
		{"unknown command", []string{"mdx", "compil"}, ExitUsage, "", "Unknown command: compil"},
		{"completion usage", []string{"mdx", "completion"}, ExitSuccess, "mdx completion <bash|zsh|fish>", ""},
		{"completion bad shell", []string{"mdx", "completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			if got := run(tt.args, env); got != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRun_DocumentWithoutCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "a.mdx", "# A\n")

	env, stdout, stderr := testEnv(nil)
	if code := run([]string{"mdx", src}, env); code != ExitSuccess {
		t.Fatalf("run() = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout.String(), "Created") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestIsCommandLike(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		arg  string
		want bool
	}{
		{"compil", true},
		{"-v", false},
		{"--format", false},
		{"missing.mdx", false},
		{"README.MD", false},
		{dir, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isCommandLike(tt.arg); got != tt.want {
			t.Errorf("isCommandLike(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}
