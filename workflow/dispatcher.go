package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentgraph/core"
)

// DefaultEventBufferSize is the channel buffer used by RunStream. Larger
// buffers reduce blocking but increase memory usage.
const DefaultEventBufferSize = 100

// RunOptions tune a single run.
type RunOptions struct {
	// MaxRounds bounds the number of dispatch rounds; 0 means unbounded
	// (the graph's own conditions are responsible for termination).
	MaxRounds int

	// EventBufferSize sets the RunStream channel buffer.
	EventBufferSize int
}

// WithMaxRounds enables the opt-in liveness safeguard: a run whose frontier
// is still non-empty after n rounds fails with ErrMaxRoundsExceeded.
func WithMaxRounds(n int) func(o *RunOptions) {
	return func(o *RunOptions) { o.MaxRounds = n }
}

// frontierEntry is one scheduled invocation: an executor id paired with the
// message routed to it.
type frontierEntry struct {
	executorID string
	message    core.Message
}

// Run executes the workflow to completion and returns the full RunState. The
// returned state carries the ordered event log and yielded outputs even when
// err is non-nil (failed runs keep their partial log for inspection).
func (w *Workflow) Run(ctx context.Context, req *core.ExecutorRequest, optFns ...func(o *RunOptions)) (*RunState, error) {
	opts := RunOptions{EventBufferSize: DefaultEventBufferSize}
	for _, fn := range optFns {
		fn(&opts)
	}

	rs := newRunState(core.NewID())

	err := w.execute(ctx, rs, req, func(ev core.Event) error {
		rs.appendEvent(ev)
		return nil
	}, opts)

	return rs, err
}

// RunStream executes the workflow asynchronously, emitting each dispatch and
// yield event as it occurs. The events channel preserves the same ordering
// and fan-out semantics as Run and is closed on completion; the error channel
// carries at most one terminal error (buffered size 1) then closes.
func (w *Workflow) RunStream(ctx context.Context, req *core.ExecutorRequest, optFns ...func(o *RunOptions)) (<-chan core.Event, <-chan error) {
	opts := RunOptions{EventBufferSize: DefaultEventBufferSize}
	for _, fn := range optFns {
		fn(&opts)
	}

	eventsCh := make(chan core.Event, opts.EventBufferSize)
	errorsCh := make(chan error, 1)

	go func() {
		defer close(eventsCh)
		defer close(errorsCh)

		rs := newRunState(core.NewID())

		emit := func(ev core.Event) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case eventsCh <- ev:
				return nil
			}
		}

		if err := w.execute(ctx, rs, req, emit, opts); err != nil {
			errorsCh <- err
		}
	}()

	return eventsCh, errorsCh
}

// execute drives the frontier state machine: Idle -> Running -> Completed
// (frontier drained) or Failed (invocation error, cancellation, round bound).
// Within a round all frontier entries are invoked concurrently against
// isolated RunContexts; the WaitGroup barrier guarantees round N+1's frontier
// is computed only after every invocation and condition evaluation of round N
// has finished. Cancellation takes effect at round boundaries; in-flight
// invocations are not interrupted mid-round.
func (w *Workflow) execute(
	ctx context.Context,
	rs *RunState,
	req *core.ExecutorRequest,
	emit func(core.Event) error,
	opts RunOptions,
) error {
	if req == nil {
		rs.status = RunStatusFailed
		return fmt.Errorf("workflow %s: nil request", w.name)
	}

	start := time.Now()
	rs.status = RunStatusRunning

	frontier := []frontierEntry{{executorID: w.startID, message: req}}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			rs.status = RunStatusFailed
			return err
		}

		if opts.MaxRounds > 0 && rs.rounds >= opts.MaxRounds {
			rs.status = RunStatusFailed
			return fmt.Errorf("workflow %s stopped after %d rounds: %w", w.name, rs.rounds, ErrMaxRoundsExceeded)
		}

		round := rs.rounds

		// ExecutorInvoked events are emitted in frontier order before the
		// round starts so the log stays deterministic regardless of how the
		// concurrent invocations interleave.
		contexts := make([]*RunContext, len(frontier))
		for i, entry := range frontier {
			rs.invocations[entry.executorID]++
			contexts[i] = newRunContext(ctx, rs.runID, entry.executorID, round, rs.invocations[entry.executorID], w.logger)

			ev := core.ExecutorInvokedEvent{
				EventMeta: core.NewEventMeta(rs.runID, entry.executorID, round),
				Input:     entry.message,
			}
			if err := emit(ev); err != nil {
				rs.status = RunStatusFailed
				return err
			}
		}

		errs := make([]error, len(frontier))

		var wg sync.WaitGroup
		for i, entry := range frontier {
			wg.Add(1)
			go func(i int, entry frontierEntry) {
				defer wg.Done()
				errs[i] = w.executors[entry.executorID].Execute(contexts[i], entry.message)
			}(i, entry)
		}
		wg.Wait()

		var next []frontierEntry

		for i, entry := range frontier {
			if errs[i] != nil {
				rs.status = RunStatusFailed
				invErr := &ExecutorInvocationError{ExecutorID: entry.executorID, Err: errs[i]}
				w.logger.Error("workflow run failed", "workflow", w.name, "run_id", rs.runID, "executor_id", entry.executorID, "error", errs[i].Error())
				return invErr
			}

			rc := contexts[i]

			completed := core.ExecutorCompletedEvent{
				EventMeta: core.NewEventMeta(rs.runID, entry.executorID, round),
				Outputs:   append([]core.Message{}, rc.sent...),
			}
			if err := emit(completed); err != nil {
				rs.status = RunStatusFailed
				return err
			}

			for _, output := range rc.outputs {
				rs.outputs = append(rs.outputs, output)

				ev := core.OutputYieldedEvent{
					EventMeta: core.NewEventMeta(rs.runID, entry.executorID, round),
					Output:    output,
				}
				if err := emit(ev); err != nil {
					rs.status = RunStatusFailed
					return err
				}
			}

			// Fan-out: every outgoing edge whose condition passes receives
			// the message; conditions are evaluated in declaration order and
			// are not assumed mutually exclusive.
			for _, msg := range rc.sent {
				for _, edge := range w.out[entry.executorID] {
					if edge.evaluate(msg, w.logger) {
						next = append(next, frontierEntry{executorID: edge.Target, message: msg})
					}
				}
			}
		}

		rs.rounds++
		frontier = next
	}

	rs.status = RunStatusCompleted
	w.logger.Debug("workflow run completed",
		"workflow", w.name,
		"run_id", rs.runID,
		"rounds", rs.rounds,
		"outputs", len(rs.outputs),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
