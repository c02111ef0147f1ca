package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/util"
	"github.com/hupe1980/agentgraph/model"
)

// Options configure a ChatAgent.
type Options struct {
	// Instructions is the agent's system prompt.
	Instructions string

	// ResponseFormat, when non-nil, is a struct (or pointer to struct) whose
	// JSON shape the agent's replies must conform to. The derived schema is
	// passed to the model on every invocation and valid replies surface as
	// AgentResponse.Structured.
	ResponseFormat any
}

// ChatAgent is a single-turn conversational agent backed by a model.Model.
type ChatAgent struct {
	name         string
	instructions string
	model        model.Model
	schema       map[string]any
	schemaName   string
}

var _ core.Agent = (*ChatAgent)(nil)

// New creates a ChatAgent with the given name.
func New(name string, m model.Model, optFns ...func(o *Options)) *ChatAgent {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ChatAgent{
		name:         name,
		instructions: opts.Instructions,
		model:        m,
	}

	if opts.ResponseFormat != nil {
		a.schema = util.CreateSchema(opts.ResponseFormat)
		a.schemaName = name
	}

	return a
}

// Name implements core.Agent.
func (a *ChatAgent) Name() string { return a.name }

// Invoke implements core.Agent. It forwards the conversation to the model and
// blocks until the full reply is available. When a response format is
// configured and the reply parses as JSON, the raw payload is attached as
// AgentResponse.Structured.
func (a *ChatAgent) Invoke(ctx context.Context, messages []core.ChatMessage) (*core.AgentResponse, error) {
	resp, err := a.model.Generate(ctx, model.Request{
		Instructions:   a.instructions,
		Messages:       messages,
		ResponseSchema: a.schema,
		SchemaName:     a.schemaName,
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.name, err)
	}

	out := &core.AgentResponse{Text: resp.Text}
	if a.schema != nil && json.Valid([]byte(resp.Text)) {
		out.Structured = json.RawMessage(resp.Text)
	}

	return out, nil
}
