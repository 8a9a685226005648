// Package config loads, normalizes, and validates ratingdrift configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts) and reads TOML files. The Config type centralizes every knob the
// analysis and the report need: dataset locations, the year pair under
// comparison, year derivation mode, density grid, table width and chart
// output. Display settings live here rather than in process-wide state so a
// run behaves the same regardless of the environment it starts in.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
