package workflow

import (
	"github.com/hupe1980/agentgraph/core"
)

// RunStatus tracks the dispatcher state machine of a single run.
type RunStatus int

const (
	// RunStatusIdle means the run has not started dispatching yet.
	RunStatusIdle RunStatus = iota
	// RunStatusRunning means the frontier is being processed.
	RunStatusRunning
	// RunStatusCompleted means the frontier drained without error.
	RunStatusCompleted
	// RunStatusFailed means an executor invocation failed, the run was
	// cancelled or the configured round bound was exceeded.
	RunStatusFailed
)

// String returns the string representation of the run status.
func (s RunStatus) String() string {
	switch s {
	case RunStatusIdle:
		return "idle"
	case RunStatusRunning:
		return "running"
	case RunStatusCompleted:
		return "completed"
	case RunStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunState is the transient record of a single workflow run: the ordered
// event log, the yielded output accumulator, the number of dispatch rounds
// and per-executor invocation counters. It is created when a run starts, is
// never shared across runs and is never mutated after the run completes, so
// the event log can be replayed by any number of consumers.
type RunState struct {
	runID       string
	status      RunStatus
	events      []core.Event
	outputs     []any
	rounds      int
	invocations map[string]int
}

func newRunState(runID string) *RunState {
	return &RunState{
		runID:       runID,
		status:      RunStatusIdle,
		invocations: make(map[string]int),
	}
}

// RunID returns the unique identifier of this run.
func (rs *RunState) RunID() string { return rs.runID }

// Status returns the terminal (or current) dispatcher status.
func (rs *RunState) Status() RunStatus { return rs.status }

// Rounds returns the number of completed dispatch rounds.
func (rs *RunState) Rounds() int { return rs.rounds }

// Events returns a copy of the ordered event log. Repeated reads after
// completion yield the same sequence.
func (rs *RunState) Events() []core.Event {
	return append([]core.Event{}, rs.events...)
}

// Outputs returns a copy of the yielded outputs in emission order.
func (rs *RunState) Outputs() []any {
	return append([]any{}, rs.outputs...)
}

// InvocationCount returns how many times the executor with the given id was
// invoked during the run. This replaces ad hoc process-wide iteration
// counters for revision loops.
func (rs *RunState) InvocationCount(executorID string) int {
	return rs.invocations[executorID]
}

func (rs *RunState) appendEvent(ev core.Event) {
	rs.events = append(rs.events, ev)
}
