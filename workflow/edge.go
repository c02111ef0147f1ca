package workflow

import (
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// Edge is a directed relation between two executors, optionally guarded by a
// condition. Immutable once the graph is built; declaration order determines
// evaluation order during fan-out.
type Edge struct {
	Source    string
	Target    string
	Condition Condition
}

// evaluate applies the edge condition to msg. A nil condition always passes.
// A panicking predicate is recovered, logged as a ConditionEvaluationError
// and treated as not taken so the run continues along other edges.
func (e Edge) evaluate(msg core.Message, logger logging.Logger) (taken bool) {
	if e.Condition == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			cerr := &ConditionEvaluationError{Source: e.Source, Target: e.Target, Reason: r}
			logger.Warn("edge condition recovered", "source", e.Source, "target", e.Target, "error", cerr.Error())
			taken = false
		}
	}()
	return e.Condition(msg)
}
