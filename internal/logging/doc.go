// Package logging assembles structured slog loggers for the media tools.
//
// Every handler writes to the diagnostic stream (stderr by default) because
// stdout carries the machine-readable JSON result. The default "status"
// format renders the Status:/Warning:/Error: lines the orchestrator scrapes;
// "console" and "json" are available for interactive debugging and log
// shipping. A no-op logger is provided for tests and wiring code.
package logging
