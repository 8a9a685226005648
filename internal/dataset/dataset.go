package dataset

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrDataUnavailable reports a missing, unreadable, or malformed input file.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrSchemaMismatch reports a requested column that is absent from a table.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// Column names of the previous (2015) dataset.
const (
	ColFilm        = "FILM"
	ColStars       = "Fandango_Stars"
	ColRatingValue = "Fandango_Ratingvalue"
	ColVotes       = "Fandango_votes"
	ColDifference  = "Fandango_Difference"
)

// Column names of the after (2016) dataset.
const (
	ColMovie    = "movie"
	ColYear     = "year"
	ColFandango = "fandango"
)

// Schema describes the columns a dataset must provide and the types forced
// on them at load time. Columns absent from Types are type-detected.
type Schema struct {
	Name     string
	Required []string
	Types    map[string]series.Type
}

// PreviousColumns are the Fandango columns kept from the previous dataset.
var PreviousColumns = []string{ColFilm, ColStars, ColRatingValue, ColVotes, ColDifference}

// AfterColumns are the Fandango columns kept from the after dataset.
var AfterColumns = []string{ColMovie, ColYear, ColFandango}

// Previous is the schema of fandango_score_comparison.csv.
var Previous = Schema{
	Name:     "previous",
	Required: PreviousColumns,
	Types: map[string]series.Type{
		ColFilm:        series.String,
		ColStars:       series.Float,
		ColRatingValue: series.Float,
		ColVotes:       series.Int,
		ColDifference:  series.Float,
	},
}

// After is the schema of movie_ratings_16_17.csv.
var After = Schema{
	Name:     "after",
	Required: AfterColumns,
	Types: map[string]series.Type{
		ColMovie:    series.String,
		ColYear:     series.Int,
		ColFandango: series.Float,
	},
}

// Pair holds both loaded datasets.
type Pair struct {
	Previous dataframe.DataFrame
	After    dataframe.DataFrame
}

// Load reads a comma-delimited file with a header row, detecting column types.
func Load(path string) (dataframe.DataFrame, error) {
	return load(path, nil)
}

// LoadWithSchema reads path and verifies its header carries every column the
// schema requires.
func LoadWithSchema(path string, schema Schema) (dataframe.DataFrame, error) {
	df, err := load(path, schema.Types)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if missing := MissingColumns(df, schema.Required); len(missing) > 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s dataset %s: unexpected header, missing %s",
			ErrDataUnavailable, schema.Name, path, strings.Join(missing, ", "))
	}
	return df, nil
}

// LoadPair loads both datasets; either failing aborts the pair.
func LoadPair(previousPath, afterPath string) (Pair, error) {
	previous, err := LoadWithSchema(previousPath, Previous)
	if err != nil {
		return Pair{}, err
	}
	after, err := LoadWithSchema(afterPath, After)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Previous: previous, After: after}, nil
}

func load(path string, types map[string]series.Type) (dataframe.DataFrame, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return dataframe.DataFrame{}, fmt.Errorf("%w: empty path", ErrDataUnavailable)
	}
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: open %s: %w", ErrDataUnavailable, path, err)
	}
	defer file.Close()

	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	}
	if len(types) > 0 {
		opts = append(opts, dataframe.WithTypes(types))
	}
	df := dataframe.ReadCSV(file, opts...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: parse %s: %w", ErrDataUnavailable, path, df.Err)
	}
	return df, nil
}

// Select returns a new table with exactly the requested columns, in the
// requested order. The source table is left untouched.
func Select(df dataframe.DataFrame, columns ...string) (dataframe.DataFrame, error) {
	if len(columns) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: no columns requested", ErrSchemaMismatch)
	}
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, dup := seen[col]; dup {
			return dataframe.DataFrame{}, fmt.Errorf("select: column %q requested twice", col)
		}
		seen[col] = struct{}{}
	}
	if missing := MissingColumns(df, columns); len(missing) > 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: missing column(s) %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	out := df.Select(columns)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("select: %w", out.Err)
	}
	return out, nil
}

// MissingColumns lists the entries of want that df does not carry.
func MissingColumns(df dataframe.DataFrame, want []string) []string {
	return MissingNames(df.Names(), want)
}

// MissingNames lists the entries of want absent from header. Names match
// exactly, the way the loader resolves columns.
func MissingNames(header, want []string) []string {
	have := make(map[string]struct{}, len(header))
	for _, name := range header {
		have[name] = struct{}{}
	}
	var missing []string
	for _, col := range want {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// HasColumn reports whether df carries the named column.
func HasColumn(df dataframe.DataFrame, name string) bool {
	return len(MissingColumns(df, []string{name})) == 0
}

// Floats copies a numeric column out of df. Missing or non-numeric cells fail
// rather than leaking NaN into statistics.
func Floats(df dataframe.DataFrame, column string) ([]float64, error) {
	if !HasColumn(df, column) {
		return nil, fmt.Errorf("%w: missing column %s", ErrSchemaMismatch, column)
	}
	values := df.Col(column).Float()
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("column %s row %d: value is not numeric", column, i+1)
		}
	}
	return values, nil
}

// Strings copies a column out of df as strings.
func Strings(df dataframe.DataFrame, column string) ([]string, error) {
	if !HasColumn(df, column) {
		return nil, fmt.Errorf("%w: missing column %s", ErrSchemaMismatch, column)
	}
	return df.Col(column).Records(), nil
}

// EmptyLike returns a table with the columns and column types of df but no rows.
func EmptyLike(df dataframe.DataFrame) dataframe.DataFrame {
	cols := make([]series.Series, 0, df.Ncol())
	for _, name := range df.Names() {
		cols = append(cols, series.New([]string{}, df.Col(name).Type(), name))
	}
	return dataframe.New(cols...)
}
