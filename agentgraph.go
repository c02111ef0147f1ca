// Package agentgraph provides a high-level façade over the workflow engine
// enabling rapid construction of graph-based multi-agent systems. Most
// applications interact with this package by:
//  1. Creating an AgentGraph via New() (optionally supplying a logger)
//  2. Registering one or more built workflows
//  3. Running a workflow synchronously (Run) or streaming its events (RunStream)
//
// The façade delegates execution to workflow.Workflow while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger.
package agentgraph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/workflow"
)

// Options configures the AgentGraph instance.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// WorkflowInfo summarizes a registered workflow.
type WorkflowInfo struct {
	Name        string
	Description string
}

// AgentGraph is the high-level façade aggregating registered workflows.
type AgentGraph struct {
	mu        sync.RWMutex
	workflows map[string]*workflow.Workflow
	logger    logging.Logger
}

// New creates a new AgentGraph instance with optional overrides.
func New(optFns ...func(o *Options)) *AgentGraph {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &AgentGraph{
		workflows: make(map[string]*workflow.Workflow),
		logger:    opts.Logger,
	}
}

// Register adds a built workflow under its name. Registering a second
// workflow with the same name is an error.
func (g *AgentGraph) Register(wf *workflow.Workflow) error {
	if wf == nil {
		return fmt.Errorf("nil workflow")
	}
	if wf.Name() == "" {
		return fmt.Errorf("workflow has no name")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.workflows[wf.Name()]; exists {
		return fmt.Errorf("workflow %q already registered", wf.Name())
	}

	g.workflows[wf.Name()] = wf
	g.logger.Debug("workflow registered", "workflow", wf.Name())

	return nil
}

// Get returns the workflow registered under name.
func (g *AgentGraph) Get(name string) (*workflow.Workflow, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	wf, ok := g.workflows[name]
	if !ok {
		return nil, fmt.Errorf("workflow %q not registered", name)
	}
	return wf, nil
}

// Workflows lists the registered workflows sorted by name.
func (g *AgentGraph) Workflows() []WorkflowInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	infos := make([]WorkflowInfo, 0, len(g.workflows))
	for _, wf := range g.workflows {
		infos = append(infos, WorkflowInfo{Name: wf.Name(), Description: wf.Description()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos
}

// Run executes the named workflow with the prompt as the initial user message
// and blocks until completion.
func (g *AgentGraph) Run(ctx context.Context, name, prompt string, optFns ...func(o *workflow.RunOptions)) (*workflow.RunState, error) {
	wf, err := g.Get(name)
	if err != nil {
		return nil, err
	}

	return wf.Run(ctx, core.NewExecutorRequest(core.NewUserMessage(prompt)), optFns...)
}

// RunStream executes the named workflow asynchronously, returning its event
// and error channels. A lookup failure is reported through the error channel
// so callers handle one code path.
func (g *AgentGraph) RunStream(ctx context.Context, name, prompt string, optFns ...func(o *workflow.RunOptions)) (<-chan core.Event, <-chan error) {
	wf, err := g.Get(name)
	if err != nil {
		eventsCh := make(chan core.Event)
		errorsCh := make(chan error, 1)
		errorsCh <- err
		close(eventsCh)
		close(errorsCh)
		return eventsCh, errorsCh
	}

	return wf.RunStream(ctx, core.NewExecutorRequest(core.NewUserMessage(prompt)), optFns...)
}
