package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// Agent is the external capability consumed by the workflow engine: it turns
// an ordered conversation into a single response. Implementations own
// transport, authentication, retry and timeout concerns; from the engine's
// perspective Invoke is a blocking call that either yields a response or a
// terminal error for the current run.
//
// Implementations must:
//   - Respect context cancellation
//   - Return a non-nil response exactly when error is nil
//   - Be safe for concurrent invocations (frontier entries may run in parallel)
type Agent interface {
	// Name returns the stable identifier used for attribution in responses
	// and events.
	Name() string

	// Invoke processes the conversation and returns the agent's reply.
	Invoke(ctx context.Context, messages []ChatMessage) (*AgentResponse, error)
}

// AgentResponse is the raw output of an Agent invocation. Structured is
// populated when the agent was constructed with a response schema and the
// reply parsed as JSON; condition predicates and bridge executors deserialize
// against it via Decode.
type AgentResponse struct {
	Text       string          `json:"text"`
	Structured json.RawMessage `json:"structured,omitempty"`
}

// Decode unmarshals the structured payload into v, falling back to the raw
// text when no structured payload was captured. A failure here is the defined
// "condition evaluates false" path for edge predicates, not an engine fault.
func (r *AgentResponse) Decode(v any) error {
	data := r.Structured
	if len(data) == 0 {
		data = []byte(r.Text)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode agent response: %w", err)
	}
	return nil
}
