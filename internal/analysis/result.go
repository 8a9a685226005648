package analysis

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ratingdrift/internal/distribution"
	"ratingdrift/internal/releaseyear"
)

// Table is a rendered snapshot of a data frame.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Heads holds the leading rows of both datasets after column selection.
type Heads struct {
	Previous Table `json:"previous"`
	After    Table `json:"after"`
}

// Issue is a title whose release year could not be derived.
type Issue struct {
	Row    int    `json:"row"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Reason string `json:"reason"`
}

// YearCounts pairs the year frequency tables of both datasets.
type YearCounts struct {
	Previous []releaseyear.YearCount `json:"previous"`
	After    []releaseyear.YearCount `json:"after"`
}

// Result is everything a run produced. It is not modified after Run returns.
type Result struct {
	RunID    string `json:"run_id"`
	YearMode string `json:"year_mode"`

	Heads Heads `json:"heads"`

	// YearsBefore counts release years before filtering; YearsAfter once
	// each dataset was narrowed to its target year.
	YearsBefore YearCounts `json:"years_before"`
	YearsAfter  YearCounts `json:"years_after"`
	Failures    []Issue    `json:"derivation_failures"`

	MinVotes int `json:"min_votes"`
	LowVotes int `json:"low_votes"`

	Preview Table `json:"preview"`

	Previous            distribution.Sample         `json:"previous"`
	After               distribution.Sample         `json:"after"`
	PreviousFrequencies distribution.FrequencyTable `json:"previous_frequencies"`
	AfterFrequencies    distribution.FrequencyTable `json:"after_frequencies"`
	PreviousDensity     distribution.Curve          `json:"previous_density"`
	AfterDensity        distribution.Curve          `json:"after_density"`
	Summary             distribution.Summary        `json:"summary"`
}

// Compared reports whether the distribution stages ran.
func (r *Result) Compared() bool {
	return r != nil && r.Previous.Len() > 0 && r.After.Len() > 0
}

func issuesFrom(failures []releaseyear.Failure) []Issue {
	if len(failures) == 0 {
		return nil
	}
	out := make([]Issue, 0, len(failures))
	for _, f := range failures {
		reason := ""
		if f.Err != nil {
			reason = f.Err.Error()
		}
		out = append(out, Issue{Row: f.Row, Title: f.Title, Year: f.Year, Reason: reason})
	}
	return out
}

func tableFromFrame(df dataframe.DataFrame) Table {
	names := df.Names()
	table := Table{Columns: names, Rows: make([][]string, df.Nrow())}
	for i := range table.Rows {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = cellText(df.Col(name).Elem(i))
		}
		table.Rows[i] = row
	}
	return table
}

func cellText(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
