package distribution

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptySample reports a sample with no ratings, for which no statistic is defined.
var ErrEmptySample = errors.New("empty sample")

// Sample is a labelled set of ratings.
type Sample struct {
	Label   string    `json:"label"`
	Ratings []float64 `json:"ratings"`
}

// NewSample copies ratings so later changes to the caller's slice do not leak in.
func NewSample(label string, ratings []float64) Sample {
	return Sample{Label: label, Ratings: slices.Clone(ratings)}
}

// Len returns the number of ratings.
func (s Sample) Len() int { return len(s.Ratings) }

func (s Sample) check() error {
	if len(s.Ratings) == 0 {
		return fmt.Errorf("%w: %q has no ratings", ErrEmptySample, s.Label)
	}
	return nil
}

// Mean returns the arithmetic mean.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}
	return stat.Mean(values, nil), nil
}

// Median returns the middle sorted value, or the average of the two middle
// values for an even count.
func Median(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, ErrEmptySample
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// Mode returns the most frequent value. When several values share the
// highest count the lowest of them wins.
func Mode(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := 0.0, 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, nil
}

// Stats are the location statistics of one sample.
type Stats struct {
	Label  string  `json:"label"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
}

// Describe computes mean, median, and mode for s.
func Describe(s Sample) (Stats, error) {
	if err := s.check(); err != nil {
		return Stats{}, err
	}
	// The sample is non-empty, so none of these can fail.
	mean, _ := Mean(s.Ratings)
	median, _ := Median(s.Ratings)
	mode, _ := Mode(s.Ratings)
	return Stats{Label: s.Label, N: s.Len(), Mean: mean, Median: median, Mode: mode}, nil
}

// Statistic names, in table order.
const (
	StatMean   = "mean"
	StatMedian = "median"
	StatMode   = "mode"
)

// StatNames lists the summary rows in display order.
var StatNames = []string{StatMean, StatMedian, StatMode}

// Summary is the fixed {mean, median, mode} × {previous, after} table plus
// the relative change of the mean.
type Summary struct {
	Previous Stats `json:"previous"`
	After    Stats `json:"after"`
	// RelativeChange is (previous mean − after mean) / previous mean; positive
	// means ratings dropped.
	RelativeChange float64 `json:"relative_change"`
}

// Summarize describes both samples and the relative change between their means.
func Summarize(previous, after Sample) (Summary, error) {
	prev, err := Describe(previous)
	if err != nil {
		return Summary{}, err
	}
	next, err := Describe(after)
	if err != nil {
		return Summary{}, err
	}
	change, err := RelativeChange(prev.Mean, next.Mean)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Previous: prev, After: next, RelativeChange: change}, nil
}

// Value returns the named statistic of st.
func (st Stats) Value(name string) (float64, bool) {
	switch name {
	case StatMean:
		return st.Mean, true
	case StatMedian:
		return st.Median, true
	case StatMode:
		return st.Mode, true
	default:
		return 0, false
	}
}

// RelativeChange returns (from − to) / from as a signed fraction.
func RelativeChange(from, to float64) (float64, error) {
	if from == 0 {
		return 0, errors.New("relative change: reference mean is zero")
	}
	return (from - to) / from, nil
}
