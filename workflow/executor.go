package workflow

import (
	"fmt"
	"time"

	"github.com/hupe1980/agentgraph/core"
)

// Executor is a named node in the workflow graph. Execute consumes the routed
// message and communicates results exclusively through the RunContext, either
// forwarding messages (SendMessage) or yielding terminal outputs
// (YieldOutput). Implementations must be safe for concurrent invocations.
type Executor interface {
	// ID returns the unique node identifier within a graph.
	ID() string

	// Execute processes msg within the given run scope. A returned error
	// fails the run with this executor's id attached; the engine does not
	// retry.
	Execute(rc *RunContext, msg core.Message) error
}

// AgentExecutor wraps an external Agent capability as a graph node. It turns
// the incoming request (or an upstream executor's response) into a
// conversation, invokes the agent once and forwards an ExecutorResponse
// tagged with this executor's id. Retry and timeout concerns belong to the
// Agent implementation, not to this node.
type AgentExecutor struct {
	id    string
	agent core.Agent
}

// NewAgentExecutor creates an agent-backed node. An empty id defaults to the
// agent's name.
func NewAgentExecutor(id string, agent core.Agent) *AgentExecutor {
	if id == "" && agent != nil {
		id = agent.Name()
	}
	return &AgentExecutor{id: id, agent: agent}
}

// ID implements Executor.
func (e *AgentExecutor) ID() string { return e.id }

// Execute implements Executor. A request with ShouldRespond=false is
// forwarded untouched without invoking the agent; a response from an
// upstream agent executor continues its conversation.
func (e *AgentExecutor) Execute(rc *RunContext, msg core.Message) error {
	var conversation []core.ChatMessage

	switch m := msg.(type) {
	case *core.ExecutorRequest:
		if !m.ShouldRespond {
			rc.SendMessage(m)
			return nil
		}
		conversation = m.Messages
	case *core.ExecutorResponse:
		conversation = m.Conversation
		if len(conversation) == 0 && m.Response != nil {
			conversation = []core.ChatMessage{core.NewUserMessage(m.Response.Text)}
		}
	default:
		return fmt.Errorf("agent executor %s: unsupported message type %T", e.id, msg)
	}

	start := time.Now()
	resp, err := e.agent.Invoke(rc.Context(), conversation)
	if err != nil {
		return fmt.Errorf("agent %s invocation: %w", e.agent.Name(), err)
	}
	rc.Logger().Debug("agent responded", "executor_id", e.id, "agent", e.agent.Name(), "duration_ms", time.Since(start).Milliseconds())

	convo := make([]core.ChatMessage, 0, len(conversation)+1)
	convo = append(convo, conversation...)
	convo = append(convo, core.NewAssistantMessage(e.agent.Name(), resp.Text))

	rc.SendMessage(&core.ExecutorResponse{
		ExecutorID:   e.id,
		Response:     resp,
		Conversation: convo,
	})

	return nil
}

// HandlerFunc is the signature of a function executor: a transform over the
// incoming message that emits zero or more outgoing messages or yields a
// terminal output through the RunContext.
type HandlerFunc func(rc *RunContext, msg core.Message) error

// FuncExecutor registers a pure transform as a graph node. Typical uses are
// re-packaging a rejection response into a fresh request routed back to an
// earlier executor (loop bridge) and packaging an approval response into a
// final output value.
type FuncExecutor struct {
	id      string
	handler HandlerFunc
}

// NewFuncExecutor creates a function-backed node.
func NewFuncExecutor(id string, handler HandlerFunc) *FuncExecutor {
	return &FuncExecutor{id: id, handler: handler}
}

// ID implements Executor.
func (e *FuncExecutor) ID() string { return e.id }

// Execute implements Executor.
func (e *FuncExecutor) Execute(rc *RunContext, msg core.Message) error {
	if e.handler == nil {
		return fmt.Errorf("function executor %s: no handler registered", e.id)
	}
	return e.handler(rc, msg)
}
