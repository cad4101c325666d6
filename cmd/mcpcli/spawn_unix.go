//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// detach configures cmd to run fully independent of the spawning CLI
// process: its own process group, so a Ctrl-C delivered to the CLI's
// foreground group doesn't also reach the daemon.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
