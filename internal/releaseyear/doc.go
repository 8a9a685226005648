// Package releaseyear derives release years from movie titles and narrows
// rating tables to a single year.
//
// The previous dataset has no year column; its titles end with "(YYYY)".
// ParseTitle reads that suffix and fails loudly on anything else, while
// SliceTitle reproduces the fixed-position extraction the published analysis
// used. The after dataset carries a native integer year, so Filter compares
// with the type the column actually holds.
package releaseyear
