// Package logger defines the logging interface used across the simulator.
// The zerolog-backed implementation lives in infra/logger; core packages only
// depend on this interface so tests can plug in a no-op logger.
package logger

// Logger exposes logging methods for common severity levels. Every component
// of a run (admission, matching, ingestion, reporting) logs through one of
// these, tagged with its component name.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StructuredLogger is the optional structured-fields capability, implemented
// by ZerologLogger and other adapters.
type StructuredLogger interface {
	Debugw(msg string, fields map[string]any)
}
