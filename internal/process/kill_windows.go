//go:build windows

// Package process terminates a browser together with the helper processes
// it spawned.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills pid and its child tree with taskkill. Errors are
// ignored: the caller still kills the leader through rod's launcher.
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
