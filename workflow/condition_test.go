package workflow

import (
	"encoding/json"
	"testing"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/stretchr/testify/assert"
)

type reviewPayload struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
}

func responseWithJSON(executorID, raw string) *core.ExecutorResponse {
	return &core.ExecutorResponse{
		ExecutorID: executorID,
		Response:   &core.AgentResponse{Text: raw, Structured: json.RawMessage(raw)},
	}
}

func TestAlways(t *testing.T) {
	assert.True(t, Always(core.NewExecutorRequest()))
	assert.True(t, Always(nil))
}

func TestResponseMatch_Approved(t *testing.T) {
	approved := ResponseMatch(func(r reviewPayload) bool { return r.Approved })

	assert.True(t, approved(responseWithJSON("checker", `{"approved":true,"feedback":"great"}`)))
	assert.False(t, approved(responseWithJSON("checker", `{"approved":false,"feedback":"too generic"}`)))
}

func TestResponseMatch_NonResponsePasses(t *testing.T) {
	approved := ResponseMatch(func(r reviewPayload) bool { return r.Approved })

	// Structural traffic (plain requests) is not gated by payload predicates.
	assert.True(t, approved(core.NewExecutorRequest(core.NewUserMessage("hi"))))
}

func TestResponseMatch_MalformedPayload(t *testing.T) {
	approved := ResponseMatch(func(r reviewPayload) bool { return r.Approved })

	resp := &core.ExecutorResponse{
		ExecutorID: "checker",
		Response:   &core.AgentResponse{Text: "sorry, I can't produce JSON today"},
	}
	assert.False(t, approved(resp))
}

func TestResponseMatch_NilResponse(t *testing.T) {
	approved := ResponseMatch(func(r reviewPayload) bool { return r.Approved })

	assert.False(t, approved(&core.ExecutorResponse{ExecutorID: "checker"}))
}

func TestEdge_Evaluate_NilConditionAlwaysTaken(t *testing.T) {
	e := Edge{Source: "a", Target: "b"}

	assert.True(t, e.evaluate(core.NewExecutorRequest(), logging.NoOpLogger{}))
}

func TestEdge_Evaluate_PanicTreatedAsNotTaken(t *testing.T) {
	e := Edge{
		Source: "a",
		Target: "b",
		Condition: func(msg core.Message) bool {
			panic("boom")
		},
	}

	assert.False(t, e.evaluate(core.NewExecutorRequest(), logging.NoOpLogger{}))
}

func TestConditionEvaluationError_Error(t *testing.T) {
	err := &ConditionEvaluationError{Source: "a", Target: "b", Reason: "boom"}

	assert.Contains(t, err.Error(), "a -> b")
	assert.Contains(t, err.Error(), "boom")
}
