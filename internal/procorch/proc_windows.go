//go:build windows
// +build windows

package procorch

import (
	"os"
	"os/exec"
)

func PrepareCommand(cmd *exec.Cmd) {}

// Windows has no SIGTERM delivery for unrelated processes; both the graceful
// and the forced path kill the child outright.
func sendTermSignal(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	return proc.Kill()
}

func sendKillSignal(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	return proc.Kill()
}
