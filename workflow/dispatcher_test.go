package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/agentgraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAgent returns queued replies in order; structured payloads are
// captured whenever the reply parses as JSON.
type scriptedAgent struct {
	name    string
	mu      sync.Mutex
	replies []string
}

func newScriptedAgent(name string, replies ...string) *scriptedAgent {
	return &scriptedAgent{name: name, replies: replies}
}

func (a *scriptedAgent) Name() string { return a.name }

func (a *scriptedAgent) Invoke(_ context.Context, _ []core.ChatMessage) (*core.AgentResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.replies) == 0 {
		return nil, fmt.Errorf("agent %s: no scripted reply left", a.name)
	}
	reply := a.replies[0]
	a.replies = a.replies[1:]

	resp := &core.AgentResponse{Text: reply}
	if json.Valid([]byte(reply)) {
		resp.Structured = json.RawMessage(reply)
	}
	return resp, nil
}

type failingAgent struct{ name string }

func (a *failingAgent) Name() string { return a.name }

func (a *failingAgent) Invoke(context.Context, []core.ChatMessage) (*core.AgentResponse, error) {
	return nil, errors.New("provider unavailable")
}

type qualityReview struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
	Content  string `json:"content"`
}

type finalContent struct {
	Content string `json:"content"`
}

// invokedOrder extracts the executor id sequence of ExecutorInvokedEvents.
func invokedOrder(events []core.Event) []string {
	var order []string
	for _, ev := range events {
		if inv, ok := ev.(core.ExecutorInvokedEvent); ok {
			order = append(order, inv.ExecutorID)
		}
	}
	return order
}

func TestWorkflow_Run_LinearChain(t *testing.T) {
	a := NewAgentExecutor("a", newScriptedAgent("A", "reply a"))
	b := NewAgentExecutor("b", newScriptedAgent("B", "reply b"))
	c := NewAgentExecutor("c", newScriptedAgent("C", "reply c"))

	wf, err := NewChain("pipeline", a, b, c)
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("go")))
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, rs.Status())
	assert.Equal(t, []string{"a", "b", "c"}, invokedOrder(rs.Events()))
	assert.Equal(t, 3, rs.Rounds())
	assert.Equal(t, 1, rs.InvocationCount("a"))
	assert.Equal(t, 1, rs.InvocationCount("b"))
	assert.Equal(t, 1, rs.InvocationCount("c"))
	assert.Empty(t, rs.Outputs())
}

func TestWorkflow_Run_ApprovedBranch(t *testing.T) {
	checker := NewAgentExecutor("checker", newScriptedAgent("Checker",
		`{"approved":true,"feedback":"great","content":"a tagline"}`))

	var approvedHits, rejectedHits int
	approvedTarget := NewFuncExecutor("approved_path", func(rc *RunContext, msg core.Message) error {
		approvedHits++
		rc.YieldOutput("approved")
		return nil
	})
	rejectedTarget := NewFuncExecutor("rejected_path", func(rc *RunContext, msg core.Message) error {
		rejectedHits++
		return nil
	})

	wf, err := NewBuilder(func(o *BuilderOptions) { o.Name = "branching" }).
		SetStartExecutor(checker).
		AddEdge(checker, approvedTarget, ResponseMatch(func(r qualityReview) bool { return r.Approved })).
		AddEdge(checker, rejectedTarget, ResponseMatch(func(r qualityReview) bool { return !r.Approved })).
		Build()
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("review this")))
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, rs.Status())
	assert.Equal(t, 1, approvedHits)
	assert.Equal(t, 0, rejectedHits)
	assert.Equal(t, []any{"approved"}, rs.Outputs())
}

func TestWorkflow_Run_NeitherConditionHolds(t *testing.T) {
	// Simulated structured-output parse failure: the reply is not JSON, so
	// both payload predicates evaluate false and the frontier drains.
	checker := NewAgentExecutor("checker", newScriptedAgent("Checker", "sorry, plain prose today"))

	approvedTarget := NewFuncExecutor("approved_path", noopHandler)
	rejectedTarget := NewFuncExecutor("rejected_path", noopHandler)

	wf, err := NewBuilder().
		SetStartExecutor(checker).
		AddEdge(checker, approvedTarget, ResponseMatch(func(r qualityReview) bool { return r.Approved })).
		AddEdge(checker, rejectedTarget, ResponseMatch(func(r qualityReview) bool { return !r.Approved })).
		Build()
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("review this")))
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, rs.Status())
	assert.Equal(t, []string{"checker"}, invokedOrder(rs.Events()))
	assert.Empty(t, rs.Outputs())
}

// buildApprovalWorkflow mirrors a writer -> checker -> {publisher | revision
// loop} content approval graph.
func buildApprovalWorkflow(t *testing.T, checkerReplies ...string) *Workflow {
	t.Helper()

	writer := NewAgentExecutor("writer", newScriptedAgent("Writer",
		`{"content":"draft 1"}`, `{"content":"draft 2"}`, `{"content":"draft 3"}`))
	checker := NewAgentExecutor("quality_checker", newScriptedAgent("Checker", checkerReplies...))
	publisher := NewAgentExecutor("publisher", newScriptedAgent("Publisher", `{"content":"polished final"}`))

	toWriterRequest := NewFuncExecutor("to_writer_request", func(rc *RunContext, msg core.Message) error {
		resp, ok := msg.(*core.ExecutorResponse)
		if !ok {
			return fmt.Errorf("expected executor response, got %T", msg)
		}
		var review qualityReview
		if err := resp.Response.Decode(&review); err != nil {
			return err
		}
		revision := core.NewUserMessage(fmt.Sprintf(
			"Please revise the content based on this feedback:\n%s\n\nOriginal content:\n%s",
			review.Feedback, review.Content))
		rc.SendMessage(core.NewExecutorRequest(revision))
		return nil
	})

	publishContent := NewFuncExecutor("publish_content", func(rc *RunContext, msg core.Message) error {
		resp, ok := msg.(*core.ExecutorResponse)
		if !ok {
			return fmt.Errorf("expected executor response, got %T", msg)
		}
		var final finalContent
		if err := resp.Response.Decode(&final); err != nil {
			return err
		}
		rc.YieldOutput("PUBLISHED: " + final.Content)
		return nil
	})

	approved := ResponseMatch(func(r qualityReview) bool { return r.Approved })
	rejected := ResponseMatch(func(r qualityReview) bool { return !r.Approved })

	wf, err := NewBuilder(func(o *BuilderOptions) { o.Name = "content-approval" }).
		SetStartExecutor(writer).
		AddEdge(writer, checker).
		AddEdge(checker, publisher, approved).
		AddEdge(publisher, publishContent).
		AddEdge(checker, toWriterRequest, rejected).
		AddEdge(toWriterRequest, writer).
		Build()
	require.NoError(t, err)

	return wf
}

func TestWorkflow_Run_RevisionLoop(t *testing.T) {
	wf := buildApprovalWorkflow(t,
		`{"approved":false,"feedback":"missing 24 hours","content":"draft 1"}`,
		`{"approved":false,"feedback":"not eco enough","content":"draft 2"}`,
		`{"approved":true,"feedback":"exceptional","content":"draft 3"}`,
	)

	rs, err := wf.Run(context.Background(),
		core.NewExecutorRequest(core.NewUserMessage("Create a tagline for an eco-friendly water bottle.")))
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, rs.Status())

	// Two rejections force two revision loops before approval.
	assert.Equal(t, 3, rs.InvocationCount("writer"))
	assert.Equal(t, 3, rs.InvocationCount("quality_checker"))
	assert.Equal(t, 2, rs.InvocationCount("to_writer_request"))
	assert.Equal(t, 1, rs.InvocationCount("publisher"))
	assert.Equal(t, 1, rs.InvocationCount("publish_content"))

	require.Len(t, rs.Outputs(), 1)
	assert.Equal(t, "PUBLISHED: polished final", rs.Outputs()[0])

	// The single yield is attributed to the publisher path.
	var yields []core.OutputYieldedEvent
	for _, ev := range rs.Events() {
		if y, ok := ev.(core.OutputYieldedEvent); ok {
			yields = append(yields, y)
		}
	}
	require.Len(t, yields, 1)
	assert.Equal(t, "publish_content", yields[0].ExecutorID)
}

func TestWorkflow_Run_EventLogReplay(t *testing.T) {
	wf := buildApprovalWorkflow(t,
		`{"approved":true,"feedback":"fine","content":"draft 1"}`,
	)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("go")))
	require.NoError(t, err)

	first := rs.Events()
	second := rs.Events()
	assert.Equal(t, first, second)

	// Mutating a returned copy must not affect later reads.
	first[0] = core.OutputYieldedEvent{}
	assert.Equal(t, second, rs.Events())
}

func TestWorkflow_Run_FanOutAndRoundBarrier(t *testing.T) {
	start := NewFuncExecutor("start", func(rc *RunContext, msg core.Message) error {
		rc.SendMessage(msg)
		return nil
	})

	// slow finishes after fast, yet frontier and event order must follow
	// edge declaration order, not completion order.
	slow := NewFuncExecutor("slow", func(rc *RunContext, msg core.Message) error {
		time.Sleep(30 * time.Millisecond)
		rc.SendMessage(msg)
		return nil
	})
	fast := NewFuncExecutor("fast", func(rc *RunContext, msg core.Message) error {
		rc.SendMessage(msg)
		return nil
	})

	var mu sync.Mutex
	var joined int
	join := NewFuncExecutor("join", func(rc *RunContext, msg core.Message) error {
		mu.Lock()
		joined++
		mu.Unlock()
		return nil
	})

	wf, err := NewBuilder().
		SetStartExecutor(start).
		AddEdge(start, slow).
		AddEdge(start, fast).
		AddEdge(slow, join).
		AddEdge(fast, join).
		Build()
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("fan out")))
	require.NoError(t, err)

	// Both unconditional edges fired: true parallel branching.
	assert.Equal(t, []string{"start", "slow", "fast", "join", "join"}, invokedOrder(rs.Events()))
	assert.Equal(t, 2, joined)
	assert.Equal(t, 3, rs.Rounds())
}

func TestWorkflow_Run_ExecutorFailure(t *testing.T) {
	writer := NewAgentExecutor("writer", &failingAgent{name: "Writer"})
	checker := NewAgentExecutor("checker", newScriptedAgent("Checker", "unused"))

	wf, err := NewBuilder().
		SetStartExecutor(writer).
		AddEdge(writer, checker).
		Build()
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("go")))
	require.Error(t, err)

	var invErr *ExecutorInvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "writer", invErr.ExecutorID)
	assert.Equal(t, RunStatusFailed, rs.Status())
	assert.Equal(t, 0, rs.InvocationCount("checker"))
}

func TestWorkflow_Run_MaxRoundsSafeguard(t *testing.T) {
	forward := func(rc *RunContext, msg core.Message) error {
		rc.SendMessage(msg)
		return nil
	}
	ping := NewFuncExecutor("ping", forward)
	pong := NewFuncExecutor("pong", forward)

	wf, err := NewBuilder().
		SetStartExecutor(ping).
		AddEdge(ping, pong).
		AddEdge(pong, ping).
		Build()
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("loop")),
		WithMaxRounds(4))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRoundsExceeded)
	assert.Equal(t, RunStatusFailed, rs.Status())
	assert.Equal(t, 4, rs.Rounds())
}

func TestWorkflow_Run_CancelledContext(t *testing.T) {
	a := NewAgentExecutor("a", newScriptedAgent("A", "reply"))

	wf, err := NewChain("pipeline", a)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rs, err := wf.Run(ctx, core.NewExecutorRequest(core.NewUserMessage("go")))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, RunStatusFailed, rs.Status())
	assert.Equal(t, 0, rs.Rounds())
}

func TestWorkflow_Run_NilRequest(t *testing.T) {
	a := NewFuncExecutor("a", noopHandler)

	wf, err := NewChain("pipeline", a)
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, RunStatusFailed, rs.Status())
}

func TestWorkflow_Run_PanickingConditionDoesNotAbort(t *testing.T) {
	checker := NewAgentExecutor("checker", newScriptedAgent("Checker", "whatever"))
	target := NewFuncExecutor("target", noopHandler)

	wf, err := NewBuilder().
		SetStartExecutor(checker).
		AddEdge(checker, target, func(msg core.Message) bool {
			panic("malformed payload")
		}).
		Build()
	require.NoError(t, err)

	rs, err := wf.Run(context.Background(), core.NewExecutorRequest(core.NewUserMessage("go")))
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, rs.Status())
	assert.Equal(t, []string{"checker"}, invokedOrder(rs.Events()))
}

func TestWorkflow_RunStream(t *testing.T) {
	wf := buildApprovalWorkflow(t,
		`{"approved":true,"feedback":"fine","content":"draft 1"}`,
	)

	eventsCh, errorsCh := wf.RunStream(context.Background(),
		core.NewExecutorRequest(core.NewUserMessage("go")))

	var events []core.Event
	for ev := range eventsCh {
		events = append(events, ev)
	}
	require.NoError(t, <-errorsCh)

	assert.Equal(t,
		[]string{"writer", "quality_checker", "publisher", "publish_content"},
		invokedOrder(events))

	var outputs []any
	for _, ev := range events {
		if y, ok := ev.(core.OutputYieldedEvent); ok {
			outputs = append(outputs, y.Output)
		}
	}
	assert.Equal(t, []any{"PUBLISHED: polished final"}, outputs)
}

func TestWorkflow_RunStream_Error(t *testing.T) {
	writer := NewAgentExecutor("writer", &failingAgent{name: "Writer"})

	wf, err := NewChain("pipeline", writer)
	require.NoError(t, err)

	eventsCh, errorsCh := wf.RunStream(context.Background(),
		core.NewExecutorRequest(core.NewUserMessage("go")))

	for range eventsCh {
	}

	streamErr := <-errorsCh
	var invErr *ExecutorInvocationError
	require.ErrorAs(t, streamErr, &invErr)
	assert.Equal(t, "writer", invErr.ExecutorID)
}
