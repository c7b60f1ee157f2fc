// Package logging wires log/slog with a console key=value handler for
// terminal use and a JSON handler for log files, plus helpers for attaching
// standardized component, stage, and session attributes.
package logging
