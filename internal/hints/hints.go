// Package hints builds the "hint:" suffixes the mdx command appends to
// error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdx/internal/fileutil"
)

const prefix = "\n  hint: "

// ciVars are set by the CI services we know of.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsInContainer reports whether the process runs in a Docker container.
// Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a CI service variable is set.
func InCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the rod environment variables that usually
// fix a browser that cannot start.
func ForBrowserConnect() string {
	var parts []string
	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return hint(parts...)
}

// ForTimeout applies to documents whose embedded code or PDF printing ran
// out of time.
func ForTimeout() string {
	return hint("look for loops in embedded expressions, or raise --timeout")
}

// ForConfigNotFound points at --config, and at the user config location
// when it was among the searched paths.
func ForConfigNotFound(searchedPaths []string) string {
	text := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), ".config/go-mdx") {
			text += " or create " + p
			break
		}
	}
	return hint(text)
}

func ForOutputDirectory() string {
	return hint("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return hint("available: " + strings.Join(available, ", "))
}

func ForEvaluation() string {
	return hint("embedded code sees only the exports and frontmatter of its own document")
}

func ForSyntax() string {
	return hint(`escape a literal "<" or "{" as "\<" or "\{"`)
}

// hint joins parts with "; " behind the hint prefix. No parts, no hint.
func hint(parts ...string) string {
	text := strings.Join(parts, "; ")
	if text == "" {
		return ""
	}
	return prefix + text
}

// slashed normalizes Windows separators for matching.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
