package dataset_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"ratingdrift/internal/dataset"
	"ratingdrift/internal/testsupport"
)

func previousFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "previous.csv")
	testsupport.WritePreviousCSV(t, path, []testsupport.PreviousRow{
		{Film: "Avengers: Age of Ultron (2015)", Stars: 5, RatingValue: 4.5, Votes: 14846, Difference: 0.5},
		{Film: "Cinderella (2015)", Stars: 5, RatingValue: 4.5, Votes: 12640, Difference: 0.5},
		{Film: "Ant-Man (2015)", Stars: 5, RatingValue: 4.5, Votes: 12055, Difference: 0.5},
	})
	return path
}

func TestLoadWithSchemaReadsTypedColumns(t *testing.T) {
	df, err := dataset.LoadWithSchema(previousFixture(t), dataset.Previous)
	if err != nil {
		t.Fatalf("LoadWithSchema: %v", err)
	}
	if df.Nrow() != 3 {
		t.Fatalf("expected 3 rows, got %d", df.Nrow())
	}
	votes, err := dataset.Floats(df, dataset.ColVotes)
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if votes[0] != 14846 {
		t.Fatalf("unexpected votes: %v", votes)
	}
	films, err := dataset.Strings(df, dataset.ColFilm)
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if films[2] != "Ant-Man (2015)" {
		t.Fatalf("unexpected films: %v", films)
	}
}

func TestLoadMissingFileIsDataUnavailable(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, dataset.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoadEmptyFileIsDataUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	testsupport.WriteFile(t, path, "")
	_, err := dataset.Load(path)
	if !errors.Is(err, dataset.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoadWithSchemaRejectsUnexpectedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "after.csv")
	testsupport.WriteFile(t, path, "title,released,score\nArrival,2016,4.0\n")
	_, err := dataset.LoadWithSchema(path, dataset.After)
	if !errors.Is(err, dataset.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for bad header, got %v", err)
	}
}

func TestLoadPairStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	previous := filepath.Join(dir, "previous.csv")
	testsupport.WritePreviousCSV(t, previous, []testsupport.PreviousRow{{Film: "Ant-Man (2015)", Stars: 5, RatingValue: 4.5, Votes: 12055}})

	_, err := dataset.LoadPair(previous, filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, dataset.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}

	after := filepath.Join(dir, "after.csv")
	testsupport.WriteAfterCSV(t, after, []testsupport.AfterRow{{Movie: "Arrival", Year: 2016, Fandango: 4}})
	pair, err := dataset.LoadPair(previous, after)
	if err != nil {
		t.Fatalf("LoadPair: %v", err)
	}
	if pair.Previous.Nrow() != 1 || pair.After.Nrow() != 1 {
		t.Fatalf("unexpected row counts: %d/%d", pair.Previous.Nrow(), pair.After.Nrow())
	}
}

func TestSelectProjectsExactColumnsInOrder(t *testing.T) {
	df, err := dataset.Load(previousFixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	selected, err := dataset.Select(df, dataset.PreviousColumns...)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !reflect.DeepEqual(selected.Names(), dataset.PreviousColumns) {
		t.Fatalf("unexpected columns: %v", selected.Names())
	}
	if selected.Nrow() != df.Nrow() {
		t.Fatalf("row count changed: %d -> %d", df.Nrow(), selected.Nrow())
	}
	if !dataset.HasColumn(df, "RottenTomatoes") {
		t.Fatal("source table lost a column after Select")
	}

	reordered, err := dataset.Select(df, dataset.ColVotes, dataset.ColFilm)
	if err != nil {
		t.Fatalf("Select reordered: %v", err)
	}
	if got := reordered.Names(); !reflect.DeepEqual(got, []string{dataset.ColVotes, dataset.ColFilm}) {
		t.Fatalf("unexpected order: %v", got)
	}
	films, _ := dataset.Strings(reordered, dataset.ColFilm)
	if films[0] != "Avengers: Age of Ultron (2015)" {
		t.Fatalf("row order not preserved: %v", films)
	}
}

func TestSelectMissingColumnIsSchemaMismatch(t *testing.T) {
	df, err := dataset.Load(previousFixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = dataset.Select(df, dataset.ColFilm, "IMDB", "Metacritic")
	if !errors.Is(err, dataset.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if got := dataset.MissingColumns(df, []string{dataset.ColFilm, "IMDB", "Metacritic"}); !reflect.DeepEqual(got, []string{"IMDB", "Metacritic"}) {
		t.Fatalf("unexpected missing columns: %v", got)
	}
}

func TestSelectRejectsDuplicates(t *testing.T) {
	df, err := dataset.Load(previousFixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := dataset.Select(df, dataset.ColFilm, dataset.ColFilm); err == nil {
		t.Fatal("expected duplicate column error")
	}
}

func TestFloatsRejectsNonNumericCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "after.csv")
	testsupport.WriteFile(t, path, "movie,year,fandango\nArrival,2016,4.0\nSplit,2016,NA\n")
	df, err := dataset.LoadWithSchema(path, dataset.After)
	if err != nil {
		t.Fatalf("LoadWithSchema: %v", err)
	}
	if _, err := dataset.Floats(df, dataset.ColFandango); err == nil {
		t.Fatal("expected error for NA rating")
	}
	if _, err := dataset.Floats(df, "imdb"); !errors.Is(err, dataset.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
