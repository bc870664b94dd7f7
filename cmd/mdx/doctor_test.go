package main

// Notes:
// - Chrome detection depends on system state; it is checked only through
//   fields that hold whatever the machine looks like.
// - Container detection tests modify environment variables, cannot use t.Parallel().

import (
	"bytes"
	"encoding/json"
	"math/big"
	"runtime"
	"strings"
	"testing"

	mdx "github.com/alnah/go-mdx"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &stderr}

	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput was: %s", err, stdout.String())
	}

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s", result.Env.OS, result.Env.Arch)
	}
	if !result.Compiler.OK {
		t.Errorf("compiler probe failed: %v", result.Errors)
	}
	if !result.System.TempWritable {
		t.Error("temp dir should be writable in tests")
	}

	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("status = %q", result.Status)
	}
	if (result.Status == "errors") != (code == ExitGeneral) {
		t.Errorf("exit code %d does not match status %q", code, result.Status)
	}
}

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	runDoctorCmd(nil, env)

	out := stdout.String()
	for _, want := range []string{"mdx doctor", "Compiler", "[OK] Sandbox evaluated probe document", "Assets (HTML and PDF output)", "Chrome/Chromium (PDF output)", "Environment", "System", "Status:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestCheckCompiler / TestContainsNumber
// ---------------------------------------------------------------------------

func TestCheckCompiler(t *testing.T) {
	t.Parallel()

	result := &doctorResult{}
	checkCompiler(result)

	if !result.Compiler.OK || len(result.Errors) != 0 {
		t.Errorf("checkCompiler() = %+v, errors %v", result.Compiler, result.Errors)
	}
	if result.Compiler.Duration == "" {
		t.Error("checkCompiler() should record the duration")
	}
}

func TestContainsNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node mdx.Node
		want bool
	}{
		{"float", 42.0, true},
		{"bigint", big.NewInt(42), true},
		{"nested", &mdx.Element{Children: []mdx.Node{"x", &mdx.Element{Tag: "p", Children: []mdx.Node{42.0}}}}, true},
		{"text", "42", false},
		{"other number", &mdx.Element{Children: []mdx.Node{41.0}}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := containsNumber(tt.node, 42); got != tt.want {
				t.Errorf("containsNumber() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckAssets(t *testing.T) {
	t.Parallel()

	result := &doctorResult{}
	checkAssets(result)

	if !result.Assets.TemplateOK || len(result.Errors) != 0 {
		t.Errorf("checkAssets() = %+v, errors %v", result.Assets, result.Errors)
	}
	if len(result.Assets.Styles) == 0 || result.Assets.Styles[0] != "default" {
		t.Errorf("styles = %v, want default first", result.Assets.Styles)
	}
}

func TestPrintDoctorResult_Statuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status string
		want   string
	}{
		{"ready", "Status: Ready"},
		{"warnings", "Status: Ready with warnings"},
		{"errors", "Status: Not ready"},
	}

	for _, tt := range tests {
		var b bytes.Buffer
		printDoctorResult(&b, &doctorResult{
			Status:   tt.status,
			Warnings: []string{"w1"},
			Errors:   []string{"e1"},
		})
		out := b.String()
		if !strings.Contains(out, tt.want) {
			t.Errorf("status %q: output does not contain %q", tt.status, tt.want)
		}
		if !strings.Contains(out, "[WARN] w1") || !strings.Contains(out, "[ERROR] e1") {
			t.Errorf("status %q: warnings and errors not listed:\n%s", tt.status, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer - Environment signals (no t.Parallel: uses t.Setenv)
// ---------------------------------------------------------------------------

func TestIsContainer_Override(t *testing.T) {
	t.Setenv("MDX_CONTAINER", "1")

	got, hint := isContainer()
	if !got || hint != "MDX_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", got, hint)
	}
}

func TestCheckEnvironment_CIWarnsWithoutNoSandbox(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")

	result := &doctorResult{}
	checkEnvironment(result)

	if !result.Env.CI {
		t.Error("CI not detected")
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "ROD_NO_SANDBOX") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}
