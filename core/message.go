package core

// Role identifies the conversational author category of a ChatMessage.
type Role string

const (
	// RoleUser marks caller-authored input.
	RoleUser Role = "user"
	// RoleAssistant marks agent/model-authored output.
	RoleAssistant Role = "assistant"
	// RoleSystem marks instruction-level content.
	RoleSystem Role = "system"
)

// ChatMessage is an immutable unit of conversational payload. Author is the
// optional identifier of the producing executor or agent; empty for
// caller-authored messages.
type ChatMessage struct {
	Role   Role   `json:"role"`
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// NewUserMessage builds a user-authored text message.
func NewUserMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleUser, Text: text}
}

// NewAssistantMessage builds an assistant message attributed to author.
func NewAssistantMessage(author, text string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Text: text, Author: author}
}

// NewSystemMessage builds a system-role instruction message.
func NewSystemMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Text: text}
}

// Message represents a polymorphic unit routed along workflow edges. Concrete
// message types implement the unexported isMessage marker enabling a closed
// set, so conditions and executors pattern-match on the tag instead of
// reflecting over arbitrary payloads.
type Message interface{ isMessage() }

// ExecutorRequest is the request envelope consumed by an AgentExecutor. It
// holds the ordered conversation so far plus a flag indicating whether the
// receiving agent is expected to produce a response.
type ExecutorRequest struct {
	Messages      []ChatMessage `json:"messages"`
	ShouldRespond bool          `json:"should_respond"`
}

// isMessage implements the Message interface for ExecutorRequest.
func (*ExecutorRequest) isMessage() {}

// NewExecutorRequest builds a request expecting a response.
func NewExecutorRequest(messages ...ChatMessage) *ExecutorRequest {
	return &ExecutorRequest{Messages: messages, ShouldRespond: true}
}

// ExecutorResponse wraps the result of invoking an agent executor. ExecutorID
// identifies the originating executor; Conversation carries the request
// messages plus the agent's reply so a downstream agent executor can continue
// the exchange.
type ExecutorResponse struct {
	ExecutorID   string         `json:"executor_id"`
	Response     *AgentResponse `json:"response"`
	Conversation []ChatMessage  `json:"conversation"`
}

// isMessage implements the Message interface for ExecutorResponse.
func (*ExecutorResponse) isMessage() {}
