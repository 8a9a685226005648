// Package main hosts the ratingdrift CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the rating comparison, its year and
// preview sanity checks, and configuration scaffolding. It centralizes
// configuration resolution and logger setup so subcommands only pick which
// analysis stages to run and how to present the result.
//
// Keep this package lean: analysis lives in internal/analysis and
// presentation in internal/report.
package main
