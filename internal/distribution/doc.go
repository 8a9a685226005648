// Package distribution compares the shape and location of two rating samples.
//
// Density produces a Gaussian kernel density curve for visual comparison,
// Frequencies a normalized frequency table, and Summarize the mean, median
// and mode of both samples with the relative change of the mean. Mode breaks
// ties towards the lowest rating. An empty sample yields ErrEmptySample
// instead of NaN.
package distribution
