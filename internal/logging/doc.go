// Package logging assembles structured slog loggers and formatting helpers used
// across sdtrack.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes attribute helpers so the indexer and recorder tag log lines with
// run IDs, track indices and identifiers consistently. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
