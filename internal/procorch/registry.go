package procorch

import (
	"fmt"
	"sync"
	"time"

	"github.com/FNNDSC/pl-supernode/internal/common"
	"github.com/hashicorp/go-hclog"
)

// ChildRegistry tracks every live worker process spawned by this program.
// It holds non-owning references: the supervisor that spawned a child keeps
// ownership and reaps it; the registry only requests termination during the
// cleanup sweep.
type ChildRegistry struct {
	logger           hclog.Logger
	terminateTimeout time.Duration

	mu       sync.Mutex
	children []*ChildHandle
}

func NewChildRegistry(logger hclog.Logger) *ChildRegistry {
	return &ChildRegistry{
		logger:           logger,
		terminateTimeout: common.TERMINATE_TIMEOUT,
	}
}

func (r *ChildRegistry) Register(handle *ChildHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.children = append(r.children, handle)
}

// Remove drops a handle from the registry once its termination is confirmed.
// Unknown handles (already swept, or never registered) are ignored.
func (r *ChildRegistry) Remove(handle *ChildHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.children {
		if h == handle {
			r.children = append(r.children[:i], r.children[i+1:]...)
			return
		}
	}
}

func (r *ChildRegistry) TerminateTimeout() time.Duration {
	return r.terminateTimeout
}

func (r *ChildRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.children)
}

// CleanupAll terminates every tracked child in reverse registration order,
// gracefully first and forcefully after the termination window, then clears
// the registry. The slice is detached under the lock, so a racing second
// sweep (signal path vs. normal path) sees an empty registry and returns
// without touching any handle twice.
func (r *ChildRegistry) CleanupAll() {
	r.mu.Lock()
	children := r.children
	r.children = nil
	r.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		handle := children[i]
		if err := handle.Terminate(r.terminateTimeout); err != nil {
			r.logger.Error(fmt.Sprintf("Failed to terminate %s: %s", handle.Args(), err.Error()))
		}
	}
}
