// Package agent implements model-backed agents. A ChatAgent binds a language
// model to a name, instructions and an optional structured response format;
// it satisfies core.Agent and is the usual payload of a workflow
// AgentExecutor.
package agent
