// Package analysis runs the rating comparison end to end.
//
// Run loads both datasets, keeps the Fandango columns, derives release years
// for the previous dataset from its titles, narrows each dataset to its
// target year and compares the resulting rating samples. Every stage logs
// with the stage name and a per-run run_id, and the first error aborts the
// run wrapped with the stage that produced it. The Result is handed to the
// report package for printing and charting.
package analysis
