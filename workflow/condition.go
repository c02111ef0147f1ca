package workflow

import (
	"github.com/hupe1980/agentgraph/core"
)

// Condition is a first-class predicate over a routed message deciding whether
// an edge is traversed in a given round. Conditions from the same source node
// are not assumed mutually exclusive; every passing edge receives the message.
// A nil Condition on an edge means "always true".
type Condition func(msg core.Message) bool

// Always is the explicit always-true condition, equivalent to omitting the
// condition on AddEdge.
func Always(core.Message) bool { return true }

// ResponseMatch builds a Condition that decodes an agent response's
// structured payload into T and applies pred. Messages that are not executor
// responses pass unconditionally (structural routing stays unaffected); a
// response whose payload fails to decode evaluates false. This is the defined
// recovery path for transient structured-output parse failures.
func ResponseMatch[T any](pred func(T) bool) Condition {
	return func(msg core.Message) bool {
		resp, ok := msg.(*core.ExecutorResponse)
		if !ok {
			return true
		}
		if resp.Response == nil {
			return false
		}
		var v T
		if err := resp.Response.Decode(&v); err != nil {
			return false
		}
		return pred(v)
	}
}
