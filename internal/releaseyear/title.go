package releaseyear

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ratingdrift/internal/dataset"
)

// ErrDerivation reports a title that does not end with a parenthesized year.
var ErrDerivation = errors.New("year derivation failed")

// Mode selects how Derive extracts a year from a title.
type Mode string

const (
	// Strict accepts only titles ending in "(YYYY)"; other rows get an empty year.
	Strict Mode = "strict"
	// Slice takes the four characters before the final one regardless of shape.
	Slice Mode = "slice"
)

var titleYearPattern = regexp.MustCompile(`\((\d{4})\)$`)

// ParseTitle extracts the release year from a title such as "Avengers (2015)".
// Trailing whitespace is ignored; anything else not matching "(YYYY)" at the
// end of the title is an ErrDerivation.
func ParseTitle(title string) (string, error) {
	match := titleYearPattern.FindStringSubmatch(strings.TrimRight(title, " \t\r\n"))
	if match == nil {
		return "", fmt.Errorf("%w: %q does not end with \"(YYYY)\"", ErrDerivation, title)
	}
	return match[1], nil
}

// SliceTitle returns the characters in positions [len-5, len-1) of title,
// clamped at the start. It never fails and returns garbage for titles that
// do not end with "(YYYY)".
func SliceTitle(title string) string {
	runes := []rune(title)
	end := max(len(runes)-1, 0)
	start := max(len(runes)-5, 0)
	return string(runes[start:end])
}

// Failure records a row whose title could not be parsed.
type Failure struct {
	Row   int // 1-based data row
	Title string
	// Year is what the row received: empty in strict mode, the slice in slice mode.
	Year string
	Err  error
}

// Derive returns a copy of df with yearCol appended, holding the year
// extracted from titleCol as a string. Rows whose title fails ParseTitle are
// reported regardless of mode so callers can surface them.
func Derive(df dataframe.DataFrame, titleCol, yearCol string, mode Mode) (dataframe.DataFrame, []Failure, error) {
	titles, err := dataset.Strings(df, titleCol)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	if mode != Strict && mode != Slice {
		return dataframe.DataFrame{}, nil, fmt.Errorf("derive year: unknown mode %q", mode)
	}

	years := make([]string, len(titles))
	var failures []Failure
	for i, title := range titles {
		parsed, perr := ParseTitle(title)
		switch mode {
		case Slice:
			years[i] = SliceTitle(title)
		default:
			years[i] = parsed
		}
		if perr != nil {
			failures = append(failures, Failure{Row: i + 1, Title: title, Year: years[i], Err: perr})
		}
	}

	out := df.Copy().Mutate(series.New(years, series.String, yearCol))
	if out.Err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("derive year: %w", out.Err)
	}
	return out, failures, nil
}
