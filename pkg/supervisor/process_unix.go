//go:build !windows

package supervisor

import (
	"os"
	"syscall"
)

func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

func terminate(proc *os.Process) error {
	return proc.Signal(syscall.SIGTERM)
}
