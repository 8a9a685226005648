package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PreviousRow is one line of a fandango_score_comparison.csv fixture.
type PreviousRow struct {
	Film        string
	Stars       float64
	RatingValue float64
	Votes       int
	Difference  float64
}

// AfterRow is one line of a movie_ratings_16_17.csv fixture.
type AfterRow struct {
	Movie    string
	Year     int
	Fandango float64
}

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePreviousCSV writes a previous-dataset fixture with the published
// header plus a Metacritic column the analysis is expected to drop.
func WritePreviousCSV(t testing.TB, path string, rows []PreviousRow) {
	t.Helper()

	var b strings.Builder
	b.WriteString("FILM,RottenTomatoes,Fandango_Stars,Fandango_Ratingvalue,Fandango_votes,Fandango_Difference\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,50,%g,%g,%d,%g\n", quoteCSV(r.Film), r.Stars, r.RatingValue, r.Votes, r.Difference)
	}
	WriteFile(t, path, b.String())
}

// WriteAfterCSV writes an after-dataset fixture with the published header
// plus an IMDB column the analysis is expected to drop.
func WriteAfterCSV(t testing.TB, path string, rows []AfterRow) {
	t.Helper()

	var b strings.Builder
	b.WriteString("movie,year,metascore,imdb,fandango\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%d,60,7.1,%g\n", quoteCSV(r.Movie), r.Year, r.Fandango)
	}
	WriteFile(t, path, b.String())
}

func quoteCSV(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
