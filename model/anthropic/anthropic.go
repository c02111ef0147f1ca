// Package anthropic provides a model wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// Generate implements model.Model against the Messages API. The API has no
// native response_format, so a requested schema is injected into the system
// prompt as a strict JSON instruction instead.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(req.Messages),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if system := buildSystemPrompt(req); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var textBuilder strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			textBuilder.WriteString(block.AsText().Text)
		}
	}

	return &model.Response{Text: textBuilder.String()}, nil
}

// buildMessages converts AgentGraph chat messages to Anthropic message format.
// System messages are handled separately via the system prompt.
func buildMessages(msgs []core.ChatMessage) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	for _, msg := range msgs {
		if msg.Text == "" || msg.Role == core.RoleSystem {
			continue
		}
		switch msg.Role {
		case core.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
		}
	}

	return messages
}

// buildSystemPrompt merges the request instructions, any system role messages
// and the schema instruction into a single system prompt.
func buildSystemPrompt(req model.Request) string {
	var parts []string

	if req.Instructions != "" {
		parts = append(parts, req.Instructions)
	}
	for _, msg := range req.Messages {
		if msg.Role == core.RoleSystem && msg.Text != "" {
			parts = append(parts, msg.Text)
		}
	}

	if req.ResponseSchema != nil {
		if schemaJSON, err := json.Marshal(req.ResponseSchema); err == nil {
			parts = append(parts, fmt.Sprintf(
				"Respond with a single JSON object conforming to this JSON schema, with no surrounding prose or markdown fences:\n%s",
				string(schemaJSON)))
		}
	}

	return strings.Join(parts, "\n\n")
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:               string(m.opts.Model),
		Provider:           "anthropic",
		SupportsJSONSchema: false,
	}
}
