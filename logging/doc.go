// Package logging provides a minimal logging interface and adapters for the
// A2A client.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn,
// Error) that the transport, session store and client use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ClientLogger with component/session context
//   - LogRPCCall / LogTurn helpers shared by all components
//   - NoOpLogger for silent operation (the library default)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	client := a2aclient.New(agentURL, func(o *a2aclient.Options) { o.Logger = logger })
package logging
