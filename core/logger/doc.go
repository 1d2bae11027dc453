// Package logger provides a structured logging facility based on Zap.
//
// It builds the application logger from configuration and integrates with the
// Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID set by the rayid middleware from a Fiber
// context and attaches it to the log entry, so every log line of one comparison
// request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error (debug selects the development config)
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Comparison failed", zap.Error(err))
package logger
