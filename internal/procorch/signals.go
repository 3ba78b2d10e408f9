package procorch

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/FNNDSC/pl-supernode/internal/common"
	"github.com/FNNDSC/pl-supernode/internal/events"
	"github.com/hashicorp/go-hclog"
)

var armed atomic.Bool

// osExit is an indirection for tests.
var osExit = os.Exit

// ArmSignalHandler registers a handler for SIGINT and SIGTERM. The signal is
// only received on a channel here; the termination sweep runs on a dedicated
// goroutine, never in signal-delivery context. After the sweep the program
// exits with a non-zero status. Returns a disarm func, or nil if a handler
// is already armed.
func ArmSignalHandler(logger hclog.Logger, registry *ChildRegistry, eventBus *events.EventBus) func() {
	if !armed.CompareAndSwap(false, true) {
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}

		logger.Info(fmt.Sprintf("received signal %s, shutting down...", sig))
		if eventBus != nil {
			eventBus.Publish(events.Event{
				Type:      common.SHUTDOWN_REQUESTED_EVENT_TYPE,
				Timestamp: time.Now(),
				Data:      events.ShutdownRequestedEvent{Signal: sig.String()},
			})
		}

		registry.CleanupAll()
		osExit(1)
	}()

	return func() {
		signal.Stop(sigCh)
		close(sigCh)
		armed.Store(false)
	}
}
