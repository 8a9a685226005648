package analysis_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ratingdrift/internal/analysis"
	"ratingdrift/internal/config"
	"ratingdrift/internal/dataset"
	"ratingdrift/internal/distribution"
	"ratingdrift/internal/logging"
	"ratingdrift/internal/releaseyear"
	"ratingdrift/internal/testsupport"
)

var previousRows = []testsupport.PreviousRow{
	{Film: "Alpha (2015)", Stars: 4.5, RatingValue: 4.3, Votes: 100, Difference: 0.2},
	{Film: "Beta (2015)", Stars: 4.0, RatingValue: 3.9, Votes: 200, Difference: 0.1},
	{Film: "Gamma (2015)", Stars: 5.0, RatingValue: 4.6, Votes: 300, Difference: 0.4},
	{Film: "Delta (2014)", Stars: 3.0, RatingValue: 3.0, Votes: 10, Difference: 0},
	{Film: "Epsilon (2014)", Stars: 3.5, RatingValue: 3.4, Votes: 20, Difference: 0.1},
}

var afterRows = []testsupport.AfterRow{
	{Movie: "One", Year: 2016, Fandango: 4.0},
	{Movie: "Two", Year: 2016, Fandango: 3.5},
	{Movie: "Three", Year: 2017, Fandango: 4.5},
	{Movie: "Four", Year: 2016, Fandango: 4.0},
}

func newFixtureConfig(t *testing.T, opts ...testsupport.ConfigOption) *config.Config {
	t.Helper()
	base := []testsupport.ConfigOption{
		testsupport.WithPreviousRows(previousRows),
		testsupport.WithAfterRows(afterRows),
		testsupport.WithoutCharts(),
	}
	return testsupport.NewConfig(t, append(base, opts...)...)
}

func TestRunEndToEnd(t *testing.T) {
	cfg := newFixtureConfig(t)

	result, err := analysis.Run(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}
	if !result.Compared() {
		t.Fatal("expected comparison to run")
	}

	if result.Previous.Len() != 3 || result.After.Len() != 3 {
		t.Fatalf("sample sizes = %d/%d, want 3/3", result.Previous.Len(), result.After.Len())
	}
	if result.Previous.Label != "2015" || result.After.Label != "2016" {
		t.Fatalf("labels = %q/%q", result.Previous.Label, result.After.Label)
	}

	wantBefore := analysis.YearCounts{
		Previous: []releaseyear.YearCount{{Year: "2015", Count: 3}, {Year: "2014", Count: 2}},
		After:    []releaseyear.YearCount{{Year: "2016", Count: 3}, {Year: "2017", Count: 1}},
	}
	if !reflect.DeepEqual(result.YearsBefore, wantBefore) {
		t.Fatalf("years before = %+v, want %+v", result.YearsBefore, wantBefore)
	}
	wantAfter := analysis.YearCounts{
		Previous: []releaseyear.YearCount{{Year: "2015", Count: 3}},
		After:    []releaseyear.YearCount{{Year: "2016", Count: 3}},
	}
	if !reflect.DeepEqual(result.YearsAfter, wantAfter) {
		t.Fatalf("years after = %+v, want %+v", result.YearsAfter, wantAfter)
	}

	summary := result.Summary
	if summary.Previous.Mean != 4.5 || summary.Previous.Median != 4.5 || summary.Previous.Mode != 4.0 {
		t.Fatalf("previous stats = %+v", summary.Previous)
	}
	if math.Abs(summary.After.Mean-11.5/3) > 1e-12 || summary.After.Median != 4.0 || summary.After.Mode != 4.0 {
		t.Fatalf("after stats = %+v", summary.After)
	}
	wantChange := (4.5 - 11.5/3) / 4.5
	if math.Abs(summary.RelativeChange-wantChange) > 1e-12 {
		t.Fatalf("relative change = %v, want %v", summary.RelativeChange, wantChange)
	}

	if math.Abs(result.PreviousFrequencies.Total()-100) > 1e-6 || math.Abs(result.AfterFrequencies.Total()-100) > 1e-6 {
		t.Fatal("frequency tables do not sum to 100")
	}
	if len(result.PreviousDensity.Points) != cfg.Density.Points {
		t.Fatalf("density points = %d, want %d", len(result.PreviousDensity.Points), cfg.Density.Points)
	}

	if result.LowVotes != 2 || result.MinVotes != 30 {
		t.Fatalf("low votes = %d (threshold %d), want 2 (30)", result.LowVotes, result.MinVotes)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}

	wantPreview := analysis.Table{
		Columns: []string{dataset.ColMovie, dataset.ColYear, dataset.ColFandango},
		Rows: [][]string{
			{"One", "2016", "4"},
			{"Two", "2016", "3.5"},
			{"Three", "2017", "4.5"},
			{"Four", "2016", "4"},
		},
	}
	if !reflect.DeepEqual(result.Preview, wantPreview) {
		t.Fatalf("preview = %+v, want %+v", result.Preview, wantPreview)
	}
}

func TestRunReportsUnparseableTitles(t *testing.T) {
	rows := append([]testsupport.PreviousRow{}, previousRows...)
	rows = append(rows, testsupport.PreviousRow{Film: "Paddington", Stars: 4.5, RatingValue: 4.4, Votes: 500})

	cfg := newFixtureConfig(t, testsupport.WithPreviousRows(rows))
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	result, err := analysis.Run(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %+v, want one", result.Failures)
	}
	issue := result.Failures[0]
	if issue.Row != 6 || issue.Title != "Paddington" || issue.Year != "" || issue.Reason == "" {
		t.Fatalf("unexpected issue: %+v", issue)
	}
	if result.Previous.Len() != 3 {
		t.Fatalf("unparseable title leaked into the sample: %d ratings", result.Previous.Len())
	}

	logs := buf.String()
	if !strings.Contains(logs, "year_derivation_failed") {
		t.Fatalf("expected derivation warning in logs:\n%s", logs)
	}
	if !strings.Contains(logs, `"run_id":"`+result.RunID+`"`) {
		t.Fatalf("expected run id on log lines:\n%s", logs)
	}
	if !strings.Contains(logs, `"stage":"`+analysis.StageDerive+`"`) {
		t.Fatalf("expected stage field on log lines:\n%s", logs)
	}
}

func TestRunSliceModeKeepsFixedPositionYears(t *testing.T) {
	rows := append([]testsupport.PreviousRow{}, previousRows...)
	rows = append(rows, testsupport.PreviousRow{Film: "Sicario (2015) ", Stars: 4.0, RatingValue: 4.1, Votes: 80})

	cfg := newFixtureConfig(t,
		testsupport.WithPreviousRows(rows),
		testsupport.WithYearMode(config.YearModeSlice),
	)
	result, err := analysis.Run(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("trailing whitespace is accepted by the parser, got %+v", result.Failures)
	}
	// The slice takes "015)" for the padded title, which never matches 2015.
	if result.Previous.Len() != 3 {
		t.Fatalf("previous sample = %d ratings, want 3", result.Previous.Len())
	}
	if result.YearMode != config.YearModeSlice {
		t.Fatalf("year mode = %q", result.YearMode)
	}
}

func TestRunFailsOnMissingInput(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAfterRows(afterRows))

	_, err := analysis.Run(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, dataset.ErrDataUnavailable) {
		t.Fatalf("error = %v, want ErrDataUnavailable", err)
	}
	if !strings.HasPrefix(err.Error(), analysis.StageLoad+":") {
		t.Fatalf("error not wrapped with stage: %v", err)
	}
}

func TestRunFailsWhenTargetYearIsAbsent(t *testing.T) {
	cfg := newFixtureConfig(t)
	cfg.Analysis.AfterYear = 2020

	_, err := analysis.Run(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, distribution.ErrEmptySample) {
		t.Fatalf("error = %v, want ErrEmptySample", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	cfg := newFixtureConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := analysis.Run(ctx, cfg, logging.NewNop()); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestRunYearsStopsBeforeComparison(t *testing.T) {
	cfg := newFixtureConfig(t)

	result, err := analysis.RunYears(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("RunYears: %v", err)
	}
	if result.Compared() {
		t.Fatal("RunYears should not compare distributions")
	}
	if len(result.YearsBefore.Previous) != 2 || len(result.YearsAfter.After) != 1 {
		t.Fatalf("unexpected year counts: %+v / %+v", result.YearsBefore, result.YearsAfter)
	}
}

func TestRunPreviewDrawsSample(t *testing.T) {
	cfg := newFixtureConfig(t)
	cfg.Analysis.SampleSize = 2

	first, err := analysis.RunPreview(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("RunPreview: %v", err)
	}
	second, err := analysis.RunPreview(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("RunPreview: %v", err)
	}
	if len(first.Preview.Rows) != 2 {
		t.Fatalf("preview rows = %d, want 2", len(first.Preview.Rows))
	}
	if !reflect.DeepEqual(first.Preview, second.Preview) {
		t.Fatalf("same seed gave different previews: %v vs %v", first.Preview, second.Preview)
	}
	if first.RunID == second.RunID {
		t.Fatal("expected a fresh run id per run")
	}
}

func movieFrame(n int) dataframe.DataFrame {
	names := make([]string, n)
	ratings := make([]float64, n)
	for i := range names {
		names[i] = string(rune('a' + i))
		ratings[i] = float64(i%5) + 0.5
	}
	return dataframe.New(
		series.New(names, series.String, dataset.ColMovie),
		series.New(ratings, series.Float, dataset.ColFandango),
	)
}

func TestSamplePreview(t *testing.T) {
	df := movieFrame(20)

	first, err := analysis.SamplePreview(df, 10, 1)
	if err != nil {
		t.Fatalf("SamplePreview: %v", err)
	}
	second, err := analysis.SamplePreview(df, 10, 1)
	if err != nil {
		t.Fatalf("SamplePreview: %v", err)
	}
	if first.Nrow() != 10 {
		t.Fatalf("rows = %d, want 10", first.Nrow())
	}
	a := first.Col(dataset.ColMovie).Records()
	b := second.Col(dataset.ColMovie).Records()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed, different rows: %v vs %v", a, b)
	}
	seen := make(map[string]bool)
	for _, name := range a {
		if seen[name] {
			t.Fatalf("row %q sampled twice", name)
		}
		seen[name] = true
	}
	if df.Nrow() != 20 {
		t.Fatal("source frame was modified")
	}
}

func TestSamplePreviewEdges(t *testing.T) {
	df := movieFrame(4)

	all, err := analysis.SamplePreview(df, 10, 7)
	if err != nil {
		t.Fatalf("SamplePreview: %v", err)
	}
	if got := all.Col(dataset.ColMovie).Records(); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("oversized sample reordered rows: %v", got)
	}

	none, err := analysis.SamplePreview(df, 0, 7)
	if err != nil {
		t.Fatalf("SamplePreview: %v", err)
	}
	if none.Nrow() != 0 || !reflect.DeepEqual(none.Names(), df.Names()) {
		t.Fatalf("empty sample = %d rows, columns %v", none.Nrow(), none.Names())
	}

	if _, err := analysis.SamplePreview(df, -1, 7); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestRunKeepsDatasetHeads(t *testing.T) {
	cfg := newFixtureConfig(t)

	result, err := analysis.Run(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	prev := result.Heads.Previous
	if !reflect.DeepEqual(prev.Columns, dataset.PreviousColumns) {
		t.Fatalf("previous head columns = %v, want %v", prev.Columns, dataset.PreviousColumns)
	}
	if len(prev.Rows) != analysis.HeadRows || prev.Rows[0][0] != "Alpha (2015)" || prev.Rows[2][0] != "Gamma (2015)" {
		t.Fatalf("unexpected previous head rows: %v", prev.Rows)
	}
	after := result.Heads.After
	if !reflect.DeepEqual(after.Columns, dataset.AfterColumns) {
		t.Fatalf("after head columns = %v", after.Columns)
	}
	if want := []string{"One", "2016", "4"}; !reflect.DeepEqual(after.Rows[0], want) {
		t.Fatalf("after head first row = %v, want %v", after.Rows[0], want)
	}
	// Heads are taken before filtering, so the 2017 title is still present.
	if after.Rows[2][0] != "Three" {
		t.Fatalf("after head third row = %v", after.Rows[2])
	}
}

func TestHead(t *testing.T) {
	df := movieFrame(5)

	head, err := analysis.Head(df, 2)
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if got := head.Col(dataset.ColMovie).Records(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("head rows = %v", got)
	}

	all, err := analysis.Head(df, 9)
	if err != nil || all.Nrow() != 5 {
		t.Fatalf("oversized head = %d rows, err %v", all.Nrow(), err)
	}
	none, err := analysis.Head(df, 0)
	if err != nil || none.Nrow() != 0 || !reflect.DeepEqual(none.Names(), df.Names()) {
		t.Fatalf("empty head = %d rows, columns %v, err %v", none.Nrow(), none.Names(), err)
	}
	if _, err := analysis.Head(df, -1); err == nil {
		t.Fatal("expected error for negative size")
	}
}
