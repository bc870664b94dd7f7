package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	mdx "github.com/alnah/go-mdx"
	"github.com/alnah/go-mdx/internal/assets"
	"github.com/alnah/go-mdx/internal/hints"
	"github.com/alnah/go-mdx/internal/page"
)

// doctorProbe must evaluate to 42: frontmatter, an export and an
// expression all take part.
const doctorProbe = "---\nanswer: 41\n---\nexport const one = 1\n\n# Probe\n\n{frontmatter.answer + one}\n"

const probeTimeout = 5 * time.Second

// Doctor statuses, worst last.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type doctorResult struct {
	Status   string       `json:"status"`
	Compiler compilerInfo `json:"compiler"`
	Assets   assetsInfo   `json:"assets"`
	Chrome   chromeInfo   `json:"chrome"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

type compilerInfo struct {
	OK       bool   `json:"ok"`
	Duration string `json:"duration,omitempty"`
}

// assetsInfo reports the built-in page assets used by HTML and PDF output.
type assetsInfo struct {
	Styles       []string `json:"styles"`
	TemplateOK   bool     `json:"template_ok"`
	TemplateName string   `json:"template"`
}

// chromeInfo is only relevant to PDF output.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// doctorChecks run in order; each fills its part of the result.
var doctorChecks = []func(*doctorResult){
	checkCompiler,
	checkAssets,
	checkChrome,
	checkEnvironment,
	checkSystem,
}

// runDoctorCmd prints the diagnostics and exits 1 only when a check
// failed. Warnings keep exit code 0.
func runDoctorCmd(args []string, env *Environment) int {
	asJSON := false
	for _, arg := range args {
		asJSON = asJSON || arg == "--json"
	}

	result := runDoctor()
	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor() *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}
	for _, check := range doctorChecks {
		check(result)
	}

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkCompiler compiles the probe document with a short deadline.
func checkCompiler(result *doctorResult) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	start := time.Now()
	res, err := mdx.Compile(ctx, doctorProbe)
	if err != nil {
		result.fail("Compiler failed: %v", err)
		return
	}
	result.Compiler.Duration = time.Since(start).Round(time.Millisecond).String()

	if !containsNumber(res.Tree, 42) {
		result.fail("Compiler evaluated the probe document incorrectly")
		return
	}
	result.Compiler.OK = true
}

// containsNumber reports whether n or one of its descendants is want.
func containsNumber(n mdx.Node, want float64) bool {
	switch v := n.(type) {
	case float64:
		return v == want
	case *big.Int:
		return v.IsInt64() && float64(v.Int64()) == want
	case *mdx.Element:
		for _, c := range v.Children {
			if containsNumber(c, want) {
				return true
			}
		}
	}
	return false
}

// checkAssets parses the built-in page template.
func checkAssets(result *doctorResult) {
	result.Assets.Styles = assets.Styles()
	result.Assets.TemplateName = assets.DefaultTemplateName

	src, err := assets.LoadTemplate(assets.DefaultTemplateName)
	if err == nil {
		_, err = page.Parse(src)
	}
	if err != nil {
		result.fail("Built-in page template: %v", err)
		return
	}
	result.Assets.TemplateOK = true
}

// checkChrome looks for a browser. Only PDF output needs one, so a missing
// browser is a warning.
func checkChrome(result *doctorResult) {
	path := result.Env.BrowserBin
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			result.warn("Chrome/Chromium not found: PDF output will download Chromium or fail. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		result.fail("Chrome not found at %s", path)
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = path
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for PDF output")
	}
}

// isContainer returns the first container signal found, if any.
func isContainer() (bool, string) {
	switch {
	case os.Getenv("MDX_CONTAINER") == "1":
		return true, "MDX_CONTAINER=1"
	case hints.IsInContainer():
		return true, "/.dockerenv"
	case os.Getenv("container") != "": // podman, systemd-nspawn
		return true, "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory the printer writes pages to.
func checkSystem(result *doctorResult) {
	dir := os.TempDir()
	probe := filepath.Join(dir, "mdx-doctor-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		result.fail("Temp directory not writable: %s", dir)
		return
	}
	_ = os.Remove(probe)
	result.System.TempWritable = true
}

// report writes one diagnostics section.
type report struct {
	w io.Writer
}

func (r report) section(title string) { fmt.Fprintf(r.w, "%s\n", title) }
func (r report) end()                 { fmt.Fprintln(r.w) }

func (r report) line(level, format string, args ...any) {
	fmt.Fprintf(r.w, "  [%s] %s\n", level, fmt.Sprintf(format, args...))
}

func printDoctorResult(w io.Writer, res *doctorResult) {
	r := report{w: w}
	fmt.Fprintln(w, "mdx doctor")
	r.end()

	r.section("Compiler")
	if res.Compiler.OK {
		r.line("OK", "Sandbox evaluated probe document (%s)", res.Compiler.Duration)
	} else {
		r.line("ERROR", "Probe document failed")
	}
	r.end()

	r.section("Assets (HTML and PDF output)")
	r.line("OK", "Styles: %s", strings.Join(res.Assets.Styles, ", "))
	if res.Assets.TemplateOK {
		r.line("OK", "Template %q parses", res.Assets.TemplateName)
	} else {
		r.line("ERROR", "Template %q does not parse", res.Assets.TemplateName)
	}
	r.end()

	r.section("Chrome/Chromium (PDF output)")
	switch {
	case !res.Chrome.Found:
		r.line("WARN", "Not found")
	default:
		r.line("OK", "Found at %s", res.Chrome.Path)
		if res.Chrome.Version != "" {
			r.line("OK", "Version: %s", res.Chrome.Version)
		}
		if res.Chrome.Sandbox {
			r.line("OK", "Sandbox: enabled")
		} else {
			r.line("OK", "Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	}
	r.end()

	r.section("Environment")
	r.line("OK", "Platform: %s/%s", res.Env.OS, res.Env.Arch)
	if res.Env.Container {
		r.line("OK", "Container: detected (%s)", res.Env.ContainerHint)
	}
	if res.Env.CI {
		r.line("OK", "CI: detected")
	}
	r.end()

	r.section("System")
	if res.System.TempWritable {
		r.line("OK", "Temp directory: writable")
	} else {
		r.line("ERROR", "Temp directory: not writable")
	}
	r.end()

	if len(res.Warnings) > 0 {
		r.section("Warnings:")
		for _, msg := range res.Warnings {
			r.line("WARN", "%s", msg)
		}
		r.end()
	}
	if len(res.Errors) > 0 {
		r.section("Errors:")
		for _, msg := range res.Errors {
			r.line("ERROR", "%s", msg)
		}
		r.end()
	}

	switch res.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
