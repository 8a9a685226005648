package distribution

import (
	"cmp"
	"slices"
)

// Frequency is the share of a sample holding one exact rating.
type Frequency struct {
	Rating  float64 `json:"rating"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// FrequencyTable lists every distinct rating of a sample in ascending order.
type FrequencyTable struct {
	Label string      `json:"label"`
	N     int         `json:"n"`
	Rows  []Frequency `json:"rows"`
}

// Frequencies groups s by exact rating and expresses each count as a
// percentage of the sample. The percentages of a non-empty sample sum to 100.
func Frequencies(s Sample) (FrequencyTable, error) {
	if err := s.check(); err != nil {
		return FrequencyTable{}, err
	}
	counts := make(map[float64]int)
	for _, v := range s.Ratings {
		counts[v]++
	}
	n := float64(len(s.Ratings))
	rows := make([]Frequency, 0, len(counts))
	for rating, c := range counts {
		rows = append(rows, Frequency{Rating: rating, Count: c, Percent: float64(c) / n * 100})
	}
	slices.SortFunc(rows, func(a, b Frequency) int { return cmp.Compare(a.Rating, b.Rating) })
	return FrequencyTable{Label: s.Label, N: len(s.Ratings), Rows: rows}, nil
}

// Percent returns the share of rating in t, zero when absent.
func (t FrequencyTable) Percent(rating float64) float64 {
	for _, row := range t.Rows {
		if row.Rating == rating {
			return row.Percent
		}
	}
	return 0
}

// Total sums the percentages of t.
func (t FrequencyTable) Total() float64 {
	var total float64
	for _, row := range t.Rows {
		total += row.Percent
	}
	return total
}
