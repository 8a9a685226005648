// Package report prints analysis results as terminal tables and draws the
// comparison charts.
//
// Tables use go-pretty with section headers that are colorized only on a
// terminal. Charts are written with gonum/plot into the configured chart
// directory while holding an advisory file lock on it. A chart that cannot
// be written is logged as a warning; the printed statistics are unaffected.
package report
