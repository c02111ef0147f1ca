package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMaxRoundsExceeded is returned when a run configured with WithMaxRounds
// still has a non-empty frontier after the allowed number of dispatch rounds.
var ErrMaxRoundsExceeded = errors.New("max dispatch rounds exceeded")

// GraphValidationError reports all referential integrity problems detected by
// Builder.Build. It is fatal and surfaced immediately; a workflow is never
// constructed from an invalid graph.
type GraphValidationError struct {
	Issues []string
}

// Error implements the error interface.
func (e *GraphValidationError) Error() string {
	return fmt.Sprintf("invalid workflow graph: %s", strings.Join(e.Issues, "; "))
}

// ConditionEvaluationError describes an edge condition that failed to
// evaluate (panicked). It is recovered locally by treating the edge as not
// taken and is logged, never surfaced as a run failure.
type ConditionEvaluationError struct {
	Source string
	Target string
	Reason any
}

// Error implements the error interface.
func (e *ConditionEvaluationError) Error() string {
	return fmt.Sprintf("condition on edge %s -> %s failed to evaluate: %v", e.Source, e.Target, e.Reason)
}

// ExecutorInvocationError wraps a failed executor invocation with the id of
// the failing node. The dispatcher does not retry; resubmitting the run is
// the caller's decision.
type ExecutorInvocationError struct {
	ExecutorID string
	Err        error
}

// Error implements the error interface.
func (e *ExecutorInvocationError) Error() string {
	return fmt.Sprintf("executor %s failed: %v", e.ExecutorID, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ExecutorInvocationError) Unwrap() error { return e.Err }
