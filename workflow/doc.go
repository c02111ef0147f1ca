// Package workflow implements the graph-based execution engine at the heart
// of AgentGraph. The package focuses on four concerns:
//
//  1. Graph definition – a Builder collects executors, directed edges and an
//     optional condition per edge, validates referential integrity and
//     produces an immutable Workflow (NewChain covers the linear case)
//  2. Executors – named units of work; AgentExecutor wraps an external Agent
//     capability, FuncExecutor registers a pure transform used for routing
//     bridges and terminal output publishing
//  3. Dispatching – round-based frontier execution with conditional fan-out,
//     cycle support and termination when the frontier drains; entries within
//     a round run concurrently and are barrier-synchronized before the next
//     round's frontier is computed
//  4. Run state – an append-only typed event log, yielded output accumulator
//     and per-executor invocation counters, replayable after completion
//
// Execution Model:
//   - A run starts with an ExecutorRequest at the designated start executor
//   - Each round invokes every frontier entry, then evaluates the outgoing
//     edges of each producer in declaration order; every passing condition
//     forwards the message (conditions are not assumed mutually exclusive)
//   - Yielded outputs are accumulated and never propagate along edges
//   - A cyclic graph terminates only when some node stops forwarding; the
//     engine imposes no implicit bound (WithMaxRounds is an opt-in safeguard)
//
// A condition predicate that panics is recovered and treated as not taken so
// a malformed structured payload from an upstream agent never aborts a run.
package workflow
