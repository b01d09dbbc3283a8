// Package logging assembles the structured slog loggers used across
// pybundle. It owns the console/JSON handlers and level plumbing, and
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
