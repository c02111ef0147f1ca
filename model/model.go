package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// Request is a single generation request against a language model.
type Request struct {
	// Instructions is the system prompt, if any.
	Instructions string

	// Messages is the conversation so far, oldest first.
	Messages []core.ChatMessage

	// ResponseSchema, when non-nil, asks the model to produce JSON conforming
	// to the given schema. Providers without native schema support receive
	// the schema as a prompt instruction instead.
	ResponseSchema map[string]any

	// SchemaName labels the schema for providers that require a name.
	SchemaName string
}

// Response is the model's reply.
type Response struct {
	Text string
}

// Info describes a model's identity and capabilities.
type Info struct {
	// Name is the provider-specific model identifier.
	Name string

	// Provider names the backing service, e.g. "openai".
	Provider string

	// SupportsJSONSchema reports whether the provider enforces response
	// schemas natively.
	SupportsJSONSchema bool
}

// Model is a synchronous language model client.
type Model interface {
	// Generate produces a single response for the request.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns the model's metadata.
	Info() Info
}

// MockModel is an in-memory Model for tests. Responses are served from a FIFO
// queue first, then from the canned map keyed by the latest message text.
type MockModel struct {
	mu     sync.Mutex
	canned map[string]string
	queue  []string
}

// NewMockModel creates an empty MockModel.
func NewMockModel() *MockModel {
	return &MockModel{canned: make(map[string]string)}
}

// AddResponse maps the latest message text to a fixed reply.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canned[prompt] = response
}

// EnqueueResponse appends a reply to the FIFO queue. Queued replies are
// consumed before canned ones, which makes scripting multi-turn loops easy.
func (m *MockModel) EnqueueResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, response)
}

// Generate implements Model.
func (m *MockModel) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) > 0 {
		text := m.queue[0]
		m.queue = m.queue[1:]
		return &Response{Text: text}, nil
	}

	if len(req.Messages) > 0 {
		last := req.Messages[len(req.Messages)-1].Text
		if text, ok := m.canned[last]; ok {
			return &Response{Text: text}, nil
		}
	}

	return nil, fmt.Errorf("mock model: no response configured")
}

// Info implements Model.
func (m *MockModel) Info() Info {
	return Info{Name: "mock", Provider: "mock", SupportsJSONSchema: true}
}
