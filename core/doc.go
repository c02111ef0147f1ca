// Package core provides the foundational domain types and interfaces used by
// AgentGraph. It defines the shared abstractions for:
//
//   - Messages (the routed units of a workflow: chat messages, executor
//     requests and executor responses as a closed tagged union)
//   - The Agent capability (an external collaborator turning a conversation
//     into a response, optionally with a structured payload)
//   - Events (immutable, typed progress records of a workflow run)
//
// The package intentionally keeps implementation concerns (graph building,
// dispatching, model providers) out of scope, exposing small interfaces and
// value types so the workflow engine and agent implementations can evolve
// independently without cyclic dependencies.
package core
