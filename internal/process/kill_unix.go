//go:build !windows

// Package process terminates a browser together with the helper processes
// it spawned.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid. Errors
// are ignored: the caller still kills the leader through rod's launcher.
func KillProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
