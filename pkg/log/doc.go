// Package log provides the logging abstraction used across framelab.
//
// Library packages accept a Logger and default to NewNoopLogger, so the
// core stays silent unless a caller wires a real logger in. The CLI and the
// HTTP server use the zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Implement Logger to route messages elsewhere.
package log
