package workflow

import (
	"sort"

	"github.com/hupe1980/agentgraph/logging"
)

// Workflow is an immutable executable graph: executors keyed by unique id,
// directed (optionally conditional) edges in declaration order and a single
// designated start executor. Construct via Builder.Build or NewChain. A
// Workflow carries no per-run state and is safe for concurrent runs.
type Workflow struct {
	name        string
	description string
	executors   map[string]Executor
	edges       []Edge
	out         map[string][]Edge
	startID     string
	logger      logging.Logger
}

// Name returns the workflow identifier.
func (w *Workflow) Name() string { return w.name }

// Description returns the human-readable summary.
func (w *Workflow) Description() string { return w.description }

// StartExecutorID returns the id of the entry node.
func (w *Workflow) StartExecutorID() string { return w.startID }

// ExecutorIDs returns the sorted ids of all registered executors.
func (w *Workflow) ExecutorIDs() []string {
	ids := make([]string, 0, len(w.executors))
	for id := range w.executors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns a copy of the edge set in declaration order.
func (w *Workflow) Edges() []Edge {
	return append([]Edge{}, w.edges...)
}
