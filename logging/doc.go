// Package logging provides a minimal logging interface and adapters for AgentGraph.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn,
// Error) that the workflow engine, executors and model adapters use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - AgentGraphLogger with workflow/run contextual helpers
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	wf, err := workflow.NewBuilder(workflow.WithLogger(logger)). ...
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
