package workflow

import (
	"context"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// RunContext is the per-invocation execution scope handed to an Executor. It
// collects the messages the executor forwards and the terminal outputs it
// yields; the dispatcher reads both after the round barrier. Each frontier
// entry receives its own RunContext, so executors running concurrently within
// a round share no mutable state and need no locking.
type RunContext struct {
	ctx        context.Context
	runID      string
	executorID string
	round      int
	attempt    int
	logger     logging.Logger

	sent    []core.Message
	outputs []any
}

func newRunContext(ctx context.Context, runID, executorID string, round, attempt int, logger logging.Logger) *RunContext {
	return &RunContext{
		ctx:        ctx,
		runID:      runID,
		executorID: executorID,
		round:      round,
		attempt:    attempt,
		logger:     logger,
	}
}

// Context returns the ambient cancellation context of the run.
func (rc *RunContext) Context() context.Context { return rc.ctx }

// RunID returns the identifier of the current run.
func (rc *RunContext) RunID() string { return rc.runID }

// ExecutorID returns the id of the executor being invoked.
func (rc *RunContext) ExecutorID() string { return rc.executorID }

// Round returns the zero-based dispatch round of this invocation.
func (rc *RunContext) Round() int { return rc.round }

// Attempt returns how many times this executor has been invoked during the
// run, counting this invocation (1 on first visit). Useful for revision-loop
// bridges that report iteration progress.
func (rc *RunContext) Attempt() int { return rc.attempt }

// Logger returns the run logger.
func (rc *RunContext) Logger() logging.Logger { return rc.logger }

// SendMessage forwards msg along the executor's outgoing edges. May be called
// zero or more times per invocation; edge conditions decide the targets.
func (rc *RunContext) SendMessage(msg core.Message) {
	rc.sent = append(rc.sent, msg)
}

// YieldOutput appends a terminal value to the run's output accumulator.
// Yielded values do not propagate along edges.
func (rc *RunContext) YieldOutput(output any) {
	rc.outputs = append(rc.outputs, output)
}
