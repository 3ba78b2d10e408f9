//go:build unix || darwin || linux
// +build unix darwin linux

package procorch

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// PrepareCommand puts the child into its own process group so termination
// signals reach the whole worker tree, not just the leader.
func PrepareCommand(cmd *exec.Cmd) {
	if cmd == nil {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// sendTermSignal sends SIGTERM to the child's process group first, then falls
// back to the process itself.
func sendTermSignal(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	if pid := proc.Pid; pid > 0 {
		if err := syscall.Kill(-pid, syscall.SIGTERM); err == nil {
			return nil
		} else if !errors.Is(err, syscall.ESRCH) {
			return err
		}
	}
	return proc.Signal(syscall.SIGTERM)
}

// sendKillSignal sends SIGKILL to the child's process group first, then falls
// back to a direct kill.
func sendKillSignal(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	if pid := proc.Pid; pid > 0 {
		if err := syscall.Kill(-pid, syscall.SIGKILL); err == nil {
			return nil
		} else if !errors.Is(err, syscall.ESRCH) {
			return err
		}
	}
	return proc.Kill()
}
