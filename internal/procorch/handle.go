package procorch

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ChildHandle owns one spawned worker process. The supervisor that spawned it
// is the only caller of Wait; everyone else (registry sweep, ctx watcher) may
// only request termination, which is a no-op once the process has been reaped.
type ChildHandle struct {
	cmd     *exec.Cmd
	started time.Time

	mu       sync.Mutex
	waited   bool
	waitErr  error
	waitDone chan struct{}
}

func NewChildHandle(cmd *exec.Cmd) *ChildHandle {
	return &ChildHandle{
		cmd:      cmd,
		started:  time.Now(),
		waitDone: make(chan struct{}),
	}
}

func (h *ChildHandle) Pid() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *ChildHandle) Args() string {
	if h.cmd == nil {
		return ""
	}
	return strings.Join(h.cmd.Args, " ")
}

func (h *ChildHandle) Uptime() time.Duration {
	return time.Since(h.started)
}

// Wait reaps the child's exit status. Must be called exactly once, by the
// owning supervisor, after the output pipes have been drained.
func (h *ChildHandle) Wait() error {
	err := h.cmd.Wait()

	h.mu.Lock()
	h.waited = true
	h.waitErr = err
	h.mu.Unlock()
	close(h.waitDone)

	return err
}

// Exited reports whether the child's exit status has been reclaimed.
func (h *ChildHandle) Exited() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.waited
}

// ExitCode returns the child's exit code after Wait has returned, or -1 if
// the process has not been reaped.
func (h *ChildHandle) ExitCode() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.waited || h.cmd.ProcessState == nil {
		return -1
	}
	return h.cmd.ProcessState.ExitCode()
}

// Terminate requests graceful termination and waits up to the given timeout
// for the exit status to be reclaimed by the owner's Wait. If the child is
// still alive after the window it is force-killed, and Terminate then blocks
// until the status is reclaimed. Terminating an already-reaped child is a no-op.
func (h *ChildHandle) Terminate(timeout time.Duration) error {
	if h.Exited() {
		return nil
	}

	proc := h.cmd.Process
	if proc == nil {
		return nil
	}

	// The child may exit between the check above and the signal send; that
	// race looks like ErrProcessDone and counts as success.
	if err := sendTermSignal(proc); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			<-h.waitDone
			return nil
		}
		return err
	}

	select {
	case <-h.waitDone:
		return nil
	case <-time.After(timeout):
	}

	if err := sendKillSignal(proc); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			<-h.waitDone
			return nil
		}
		return err
	}
	<-h.waitDone

	return nil
}
