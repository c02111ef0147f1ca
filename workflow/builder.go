package workflow

import (
	"fmt"

	"github.com/hupe1980/agentgraph/logging"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Name is the workflow identifier surfaced by the hosting layer.
	Name string

	// Description is a human-readable summary of the graph.
	Description string

	// Logger receives engine diagnostics (recovered conditions, round
	// progress). Defaults to NoOp if nil.
	Logger logging.Logger
}

// Builder accumulates executors and edges and produces an immutable Workflow.
// Executors are registered implicitly through AddEdge / SetStartExecutor;
// Build validates referential integrity and fails with a
// *GraphValidationError listing every problem found. No implicit edge is ever
// added between unconnected nodes.
type Builder struct {
	opts      BuilderOptions
	executors map[string]Executor
	edges     []Edge
	startID   string
	startSet  bool
	issues    []string
}

// NewBuilder creates an empty graph builder.
func NewBuilder(optFns ...func(o *BuilderOptions)) *Builder {
	opts := BuilderOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Builder{
		opts:      opts,
		executors: make(map[string]Executor),
	}
}

// AddEdge declares a directed edge from source to target, optionally guarded
// by a single condition predicate. Omitting the condition means the edge is
// always taken. Both endpoints are registered with the graph. Returns the
// builder for chaining.
func (b *Builder) AddEdge(source, target Executor, condition ...Condition) *Builder {
	src := b.register(source)
	dst := b.register(target)

	if len(condition) > 1 {
		b.issues = append(b.issues, fmt.Sprintf("edge %s -> %s: at most one condition allowed, got %d", src, dst, len(condition)))
		return b
	}

	var cond Condition
	if len(condition) == 1 {
		cond = condition[0]
	}

	b.edges = append(b.edges, Edge{Source: src, Target: dst, Condition: cond})

	return b
}

// SetStartExecutor designates the entry node of the graph. Exactly one start
// executor must be set before Build.
func (b *Builder) SetStartExecutor(e Executor) *Builder {
	id := b.register(e)
	if b.startSet && b.startID != id {
		b.issues = append(b.issues, fmt.Sprintf("start executor already set to %q, cannot reset to %q", b.startID, id))
		return b
	}
	b.startID = id
	b.startSet = true
	return b
}

// register records an executor by id, tracking nil executors, blank ids and
// conflicting registrations (two distinct executors sharing one id).
func (b *Builder) register(e Executor) string {
	if e == nil {
		b.issues = append(b.issues, "nil executor")
		return ""
	}
	id := e.ID()
	if id == "" {
		b.issues = append(b.issues, fmt.Sprintf("executor of type %T has empty id", e))
		return ""
	}
	if existing, ok := b.executors[id]; ok {
		if existing != e {
			b.issues = append(b.issues, fmt.Sprintf("duplicate executor id %q", id))
		}
		return id
	}
	b.executors[id] = e
	return id
}

// Build validates the accumulated graph and returns an immutable Workflow.
// Validation failures are collected and returned together as a
// *GraphValidationError.
func (b *Builder) Build() (*Workflow, error) {
	issues := append([]string{}, b.issues...)

	if !b.startSet {
		issues = append(issues, "no start executor set")
	} else if _, ok := b.executors[b.startID]; !ok {
		issues = append(issues, fmt.Sprintf("start executor %q is not registered", b.startID))
	}

	for _, e := range b.edges {
		if _, ok := b.executors[e.Source]; e.Source != "" && !ok {
			issues = append(issues, fmt.Sprintf("edge source %q references an unregistered executor", e.Source))
		}
		if _, ok := b.executors[e.Target]; e.Target != "" && !ok {
			issues = append(issues, fmt.Sprintf("edge target %q references an unregistered executor", e.Target))
		}
	}

	if len(issues) > 0 {
		return nil, &GraphValidationError{Issues: issues}
	}

	executors := make(map[string]Executor, len(b.executors))
	for id, e := range b.executors {
		executors[id] = e
	}

	edges := append([]Edge{}, b.edges...)

	// Outgoing adjacency preserves edge declaration order per source.
	out := make(map[string][]Edge, len(executors))
	for _, e := range edges {
		out[e.Source] = append(out[e.Source], e)
	}

	return &Workflow{
		name:        b.opts.Name,
		description: b.opts.Description,
		executors:   executors,
		edges:       edges,
		out:         out,
		startID:     b.startID,
		logger:      b.opts.Logger,
	}, nil
}

// NewChain is the linear convenience mode: it wires the given executors in
// order with unconditional edges and the first as start node. It desugars to
// the same Workflow representation produced by the general builder.
func NewChain(name string, executors ...Executor) (*Workflow, error) {
	b := NewBuilder(func(o *BuilderOptions) { o.Name = name })

	if len(executors) == 0 {
		b.issues = append(b.issues, "chain requires at least one executor")
		return b.Build()
	}

	b.SetStartExecutor(executors[0])
	for i := 0; i+1 < len(executors); i++ {
		b.AddEdge(executors[i], executors[i+1])
	}

	return b.Build()
}
