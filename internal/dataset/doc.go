// Package dataset loads the rating tables and projects them onto the columns
// the comparison needs.
//
// Tables are gota DataFrames. Every function returns a fresh frame, so a
// projection or filter taken downstream never aliases the data it was built
// from. Failures are reported through two sentinels: ErrDataUnavailable for
// anything that prevents a file from becoming a table, ErrSchemaMismatch for a
// table that lacks a requested column.
package dataset
