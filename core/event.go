package core

import (
	"time"

	"github.com/google/uuid"
)

// EventMeta carries the correlation fields shared by all event types. After
// emission events should be treated as immutable; a completed run's log can
// be replayed by any number of consumers.
type EventMeta struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	ExecutorID string    `json:"executor_id"`
	Round      int       `json:"round"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEventMeta constructs metadata for an event produced by executorID during
// the given dispatch round.
func NewEventMeta(runID, executorID string, round int) EventMeta {
	return EventMeta{
		ID:         NewID(),
		RunID:      runID,
		ExecutorID: executorID,
		Round:      round,
		Timestamp:  time.Now().UTC(),
	}
}

// Meta returns the shared correlation fields. Present so all concrete event
// types satisfy Event through embedding.
func (m EventMeta) Meta() EventMeta { return m }

// Event is the typed progress record of a workflow run. Concrete event types
// implement the unexported isEvent marker enabling a closed set; consumers
// type-switch on the concrete type.
type Event interface {
	isEvent()
	Meta() EventMeta
}

// ExecutorInvokedEvent records that an executor entered the frontier and is
// about to be invoked with Input.
type ExecutorInvokedEvent struct {
	EventMeta
	Input Message `json:"input"`
}

// isEvent implements the Event interface for ExecutorInvokedEvent.
func (ExecutorInvokedEvent) isEvent() {}

// ExecutorCompletedEvent records that an executor finished, with a snapshot
// of the messages it forwarded along outgoing edges.
type ExecutorCompletedEvent struct {
	EventMeta
	Outputs []Message `json:"outputs"`
}

// isEvent implements the Event interface for ExecutorCompletedEvent.
func (ExecutorCompletedEvent) isEvent() {}

// OutputYieldedEvent records a terminal output appended to the run's output
// accumulator. Yielded values do not propagate further along edges.
type OutputYieldedEvent struct {
	EventMeta
	Output any `json:"output"`
}

// isEvent implements the Event interface for OutputYieldedEvent.
func (OutputYieldedEvent) isEvent() {}

// NewID generates a unique identifier for runs and events.
func NewID() string { return uuid.NewString() }
