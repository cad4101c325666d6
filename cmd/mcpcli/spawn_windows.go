//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// detach configures cmd to run fully independent of the spawning CLI
// process, with no console window of its own.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | 0x08000000, // CREATE_NO_WINDOW
	}
}
