// Package logging assembles structured slog loggers and formatting helpers used
// across ratingdrift.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline stages automatically tag log
// lines with the run identifier and stage name. Loggers write to stderr by
// default; stdout belongs to the report. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
