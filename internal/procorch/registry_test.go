//go:build unix || darwin || linux
// +build unix darwin linux

package procorch

import (
	"os/exec"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
)

// spawnChild starts a command the way the supervisor does: registered in the
// registry, with a goroutine owning Wait.
func spawnChild(t *testing.T, registry *ChildRegistry, name string, args ...string) *ChildHandle {
	t.Helper()

	cmd := exec.Command(name, args...)
	PrepareCommand(cmd)
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start %s: %v", name, err)
	}

	handle := NewChildHandle(cmd)
	registry.Register(handle)
	go func() { _ = handle.Wait() }()

	return handle
}

func TestChildRegistryCleanup(t *testing.T) {
	t.Run("sweep terminates tracked children and clears the registry", func(t *testing.T) {
		registry := NewChildRegistry(hclog.NewNullLogger())
		handle := spawnChild(t, registry, "sleep", "60")

		if registry.Size() != 1 {
			t.Fatalf("expected one tracked child, got %d", registry.Size())
		}

		done := make(chan struct{})
		go func() {
			registry.CleanupAll()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("cleanup did not finish")
		}

		if registry.Size() != 0 {
			t.Fatalf("registry not cleared, %d children left", registry.Size())
		}
		if !handle.Exited() {
			t.Fatalf("child was not reaped")
		}
	})

	t.Run("second sweep is a no-op", func(t *testing.T) {
		registry := NewChildRegistry(hclog.NewNullLogger())
		spawnChild(t, registry, "sleep", "60")

		registry.CleanupAll()
		// racing or repeated sweeps must not touch already-reaped handles
		registry.CleanupAll()

		if registry.Size() != 0 {
			t.Fatalf("registry not empty after sweeps")
		}
	})

	t.Run("terminating an exited child is a no-op", func(t *testing.T) {
		registry := NewChildRegistry(hclog.NewNullLogger())

		cmd := exec.Command("true")
		PrepareCommand(cmd)
		if err := cmd.Start(); err != nil {
			t.Fatalf("failed to start: %v", err)
		}
		handle := NewChildHandle(cmd)
		registry.Register(handle)
		if err := handle.Wait(); err != nil {
			t.Fatalf("wait failed: %v", err)
		}

		start := time.Now()
		if err := handle.Terminate(10 * time.Second); err != nil {
			t.Fatalf("terminate after exit must not fail: %v", err)
		}
		if time.Since(start) > time.Second {
			t.Fatalf("terminate after exit must return immediately")
		}

		registry.CleanupAll()
	})

	t.Run("sweep runs in reverse registration order", func(t *testing.T) {
		registry := NewChildRegistry(hclog.NewNullLogger())
		first := spawnChild(t, registry, "sleep", "60")
		second := spawnChild(t, registry, "sleep", "60")

		registry.CleanupAll()

		// both ended up terminated either way; order itself is observable
		// only through timing, so assert the end state
		if !first.Exited() || !second.Exited() {
			t.Fatalf("expected both children reaped")
		}
	})
}

func TestChildRegistryRemove(t *testing.T) {
	t.Run("removes only the given handle", func(t *testing.T) {
		registry := NewChildRegistry(hclog.NewNullLogger())
		first := spawnChild(t, registry, "sleep", "60")
		second := spawnChild(t, registry, "sleep", "60")

		registry.Remove(first)
		if registry.Size() != 1 {
			t.Fatalf("expected one tracked child after remove, got %d", registry.Size())
		}

		registry.CleanupAll()
		if !second.Exited() {
			t.Fatalf("remaining child was not swept")
		}
		_ = first.Terminate(10 * time.Second)
	})

	t.Run("removing an unknown handle is a no-op", func(t *testing.T) {
		registry := NewChildRegistry(hclog.NewNullLogger())
		handle := spawnChild(t, registry, "sleep", "60")

		registry.Remove(handle)
		registry.Remove(handle)
		if registry.Size() != 0 {
			t.Fatalf("expected empty registry, got %d", registry.Size())
		}
		_ = handle.Terminate(10 * time.Second)
	})
}

func TestChildHandleExitCode(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 3")
	PrepareCommand(cmd)
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	handle := NewChildHandle(cmd)

	if handle.ExitCode() != -1 {
		t.Fatalf("exit code must be -1 before reaping")
	}

	_ = handle.Wait()

	if got := handle.ExitCode(); got != 3 {
		t.Fatalf("got exit code %d, want 3", got)
	}
	if !handle.Exited() {
		t.Fatalf("expected handle to report exited")
	}
}
