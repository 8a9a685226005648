// Package preflight provides readiness checks for the filesystem paths a
// comparison run depends on.
//
// The CLI "config validate" command runs them to report whether both
// datasets are readable with the expected header and whether charts can be
// written. The analysis itself does not call them; it fails on the first
// unusable input instead.
package preflight
