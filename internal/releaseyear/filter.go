package releaseyear

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ratingdrift/internal/dataset"
)

// Target is a year to filter on. A text target matches string columns by
// exact value; a numeric target matches integer columns.
type Target struct {
	text    string
	number  int
	numeric bool
}

// Text targets a derived string year column.
func Text(year string) Target { return Target{text: year} }

// Number targets a native integer year column.
func Number(year int) Target { return Target{number: year, numeric: true} }

// Numeric reports whether the target compares as an integer.
func (t Target) Numeric() bool { return t.numeric }

func (t Target) String() string {
	if t.numeric {
		return strconv.Itoa(t.number)
	}
	return t.text
}

// Filter returns a copy of df holding only the rows whose yearCol equals
// target. Filtering an already filtered table by the same target returns an
// equal table.
func Filter(df dataframe.DataFrame, yearCol string, target Target) (dataframe.DataFrame, error) {
	if !dataset.HasColumn(df, yearCol) {
		return dataframe.DataFrame{}, fmt.Errorf("%w: missing column %s", dataset.ErrSchemaMismatch, yearCol)
	}
	col := df.Col(yearCol)
	switch {
	case target.numeric && col.Type() != series.Int:
		return dataframe.DataFrame{}, fmt.Errorf("%w: column %s is %s, numeric year %d needs int", dataset.ErrSchemaMismatch, yearCol, col.Type(), target.number)
	case !target.numeric && col.Type() != series.String:
		return dataframe.DataFrame{}, fmt.Errorf("%w: column %s is %s, year %q needs string", dataset.ErrSchemaMismatch, yearCol, col.Type(), target.text)
	}

	rows := make([]int, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		if elem.IsNA() {
			continue
		}
		if target.numeric {
			v, err := elem.Int()
			if err == nil && v == target.number {
				rows = append(rows, i)
			}
			continue
		}
		if elem.String() == target.text {
			rows = append(rows, i)
		}
	}

	if len(rows) == 0 {
		return dataset.EmptyLike(df), nil
	}
	out := df.Subset(rows)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("filter %s=%s: %w", yearCol, target, out.Err)
	}
	return out, nil
}

// YearCount is the number of rows carrying one year value.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// Frequencies counts rows per distinct value of yearCol, most frequent
// first and ties by year ascending. Missing values are counted under "NaN".
func Frequencies(df dataframe.DataFrame, yearCol string) ([]YearCount, error) {
	values, err := dataset.Strings(df, yearCol)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	out := make([]YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, YearCount{Year: year, Count: n})
	}
	slices.SortFunc(out, func(a, b YearCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Year, b.Year)
	})
	return out, nil
}

// CountBelow returns how many rows have votesCol strictly below threshold.
func CountBelow(df dataframe.DataFrame, votesCol string, threshold int) (int, error) {
	votes, err := dataset.Floats(df, votesCol)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, v := range votes {
		if v < float64(threshold) {
			n++
		}
	}
	return n, nil
}
