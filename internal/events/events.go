package events

import (
	"sync"
	"time"

	"github.com/FNNDSC/pl-supernode/internal/model"
)

// Event represents a generic event structure
type Event struct {
	Type      string
	Timestamp time.Time
	Data      interface{}
}

// RunFinishedEvent is published when a supervised run ends, on success or failure
type RunFinishedEvent struct {
	Cid      int32
	ExitCode int
	Summary  *model.SummaryRecord
}

// ShutdownRequestedEvent is published when a termination signal is caught,
// before the child cleanup sweep runs
type ShutdownRequestedEvent struct {
	Signal string
}

// EventBus handles event subscription and dispatching. Publish may be called
// from the signal-handling goroutine, so the subscriber map is mutex-protected.
type EventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan<- Event
}

// NewEventBus creates a new instance of the event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan<- Event),
	}
}

// Subscribe adds a new subscriber for a given event type
func (eb *EventBus) Subscribe(eventType string, subscriber chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// Publish sends an event to all subscribers of a given event type
func (eb *EventBus) Publish(event Event) {
	eb.mu.Lock()
	subscribers := append([]chan<- Event{}, eb.subscribers[event.Type]...)
	eb.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber <- event
	}
}
