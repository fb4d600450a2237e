//go:build windows

package supervisor

import (
	"os"
	"syscall"
)

const detachedProcess = 0x00000008

func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: detachedProcess | syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// there is no SIGTERM for a detached process without a console
func terminate(proc *os.Process) error {
	return proc.Kill()
}
