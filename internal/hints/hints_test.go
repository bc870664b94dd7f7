package hints

// ForBrowserConnect and InCI read the environment, so their tests use
// t.Setenv and cannot run in parallel.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Environment-driven suggestions
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		ci          string
		container   bool
		noSandbox   string
		browserBin  string
		wantSandbox bool
		wantBin     bool
	}{
		{"ci", "true", false, "", "", true, true},
		{"docker", "", true, "", "", true, true},
		{"sandbox already disabled", "", true, "1", "", false, true},
		{"browser bin set", "", false, "", "/usr/bin/chromium", false, false},
		{"desktop", "", false, "", "", false, true},
		{"fully configured container", "true", true, "1", "/usr/bin/chromium", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := IsInContainer
			defer func() { IsInContainer = orig }()
			IsInContainer = func() bool { return tt.container }

			for _, v := range ciVars {
				t.Setenv(v, "")
			}
			t.Setenv("CI", tt.ci)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			got := ForBrowserConnect()
			if has := strings.Contains(got, "ROD_NO_SANDBOX"); has != tt.wantSandbox {
				t.Errorf("ROD_NO_SANDBOX suggested = %v, want %v (%q)", has, tt.wantSandbox, got)
			}
			if has := strings.Contains(got, "ROD_BROWSER_BIN"); has != tt.wantBin {
				t.Errorf("ROD_BROWSER_BIN suggested = %v, want %v (%q)", has, tt.wantBin, got)
			}
			if !tt.wantSandbox && !tt.wantBin && got != "" {
				t.Errorf("ForBrowserConnect() = %q, want no hint", got)
			}
		})
	}
}

func TestInCI(t *testing.T) {
	for _, v := range ciVars {
		t.Setenv(v, "")
	}
	if InCI() {
		t.Fatal("InCI() = true with no CI variables")
	}
	t.Setenv("GITLAB_CI", "true")
	if !InCI() {
		t.Error("InCI() = false with GITLAB_CI set")
	}
}

// ---------------------------------------------------------------------------
// TestHints - Static hints
// ---------------------------------------------------------------------------

func TestHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		got      string
		contains string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "parent directory"},
		{"evaluation", ForEvaluation(), "frontmatter"},
		{"syntax", ForSyntax(), `"\<"`},
		{"config without user path", ForConfigNotFound(nil), "--config"},
		{"config with user path", ForConfigNotFound([]string{"./foo.yaml", "/home/u/.config/go-mdx/foo.yaml"}), "create /home/u/.config/go-mdx/foo.yaml"},
		{"config windows path", ForConfigNotFound([]string{`C:\Users\u\.config\go-mdx\foo.yaml`}), "or create"},
		{"styles", ForStyleNotFound([]string{"default", "minimal"}), "available: default, minimal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("hint %q lacks the hint prefix", tt.got)
			}
			if !strings.Contains(tt.got, tt.contains) {
				t.Errorf("hint %q does not contain %q", tt.got, tt.contains)
			}
		})
	}
}

func TestForStyleNotFound_NoStyles(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
}
