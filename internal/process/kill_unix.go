//go:build !windows

// Package process terminates the headless browser and its helper processes.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the whole process group led by pid, so
// Chrome's renderer and GPU helpers go down with it. Non-positive PIDs are
// ignored: -0 would target our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
