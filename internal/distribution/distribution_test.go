package distribution_test

import (
	"errors"
	"math"
	"testing"

	"ratingdrift/internal/distribution"
)

func TestMean(t *testing.T) {
	got, err := distribution.Mean([]float64{3.0, 4.0, 5.0})
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	if got != 4.0 {
		t.Fatalf("Mean = %v, want 4.0", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{3.0, 4.0, 5.0, 5.0}, 4.5},
		{[]float64{5.0, 3.0, 4.0}, 4.0},
		{[]float64{2.5}, 2.5},
		{[]float64{5, 5, 4.5, 4, 3}, 4.5},
	}
	for _, tt := range tests {
		got, err := distribution.Median(tt.values)
		if err != nil {
			t.Fatalf("Median(%v): %v", tt.values, err)
		}
		if got != tt.want {
			t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{5, 3, 4}
	if _, err := distribution.Median(values); err != nil {
		t.Fatalf("Median: %v", err)
	}
	if values[0] != 5 || values[1] != 3 || values[2] != 4 {
		t.Fatalf("Median sorted its input in place: %v", values)
	}
}

func TestModeTieBreaksLow(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{3.5, 3.5, 4.0, 4.0}, 3.5},
		{[]float64{4.0, 4.0, 3.5, 3.5}, 3.5},
		{[]float64{4.5, 4.5, 4.5, 4.0, 5.0}, 4.5},
		{[]float64{5.0, 3.0, 4.0}, 3.0},
	}
	for _, tt := range tests {
		for range 10 {
			got, err := distribution.Mode(tt.values)
			if err != nil {
				t.Fatalf("Mode(%v): %v", tt.values, err)
			}
			if got != tt.want {
				t.Fatalf("Mode(%v) = %v, want %v", tt.values, got, tt.want)
			}
		}
	}
}

func TestStatisticsRejectEmptyInput(t *testing.T) {
	if _, err := distribution.Mean(nil); !errors.Is(err, distribution.ErrEmptySample) {
		t.Fatalf("Mean(nil) error = %v", err)
	}
	if _, err := distribution.Median(nil); !errors.Is(err, distribution.ErrEmptySample) {
		t.Fatalf("Median(nil) error = %v", err)
	}
	if _, err := distribution.Mode(nil); !errors.Is(err, distribution.ErrEmptySample) {
		t.Fatalf("Mode(nil) error = %v", err)
	}
	empty := distribution.NewSample("2016", nil)
	if _, err := distribution.Frequencies(empty); !errors.Is(err, distribution.ErrEmptySample) {
		t.Fatalf("Frequencies(empty) error = %v", err)
	}
	if _, err := distribution.Density(empty, distribution.DefaultDensityOptions()); !errors.Is(err, distribution.ErrEmptySample) {
		t.Fatalf("Density(empty) error = %v", err)
	}
	if _, err := distribution.Summarize(distribution.NewSample("2015", []float64{4}), empty); !errors.Is(err, distribution.ErrEmptySample) {
		t.Fatalf("Summarize with empty sample error = %v", err)
	}
}

func TestRelativeChange(t *testing.T) {
	got, err := distribution.RelativeChange(4.0, 3.8)
	if err != nil {
		t.Fatalf("RelativeChange: %v", err)
	}
	if math.Abs(got-0.05) > 1e-12 {
		t.Fatalf("RelativeChange(4.0, 3.8) = %v, want 0.05", got)
	}
	rise, _ := distribution.RelativeChange(4.0, 4.2)
	if rise >= 0 {
		t.Fatalf("expected negative change for a rise, got %v", rise)
	}
	if _, err := distribution.RelativeChange(0, 1); err == nil {
		t.Fatal("expected error for zero reference mean")
	}
}

func TestFrequenciesSumToHundred(t *testing.T) {
	samples := [][]float64{
		{4.5, 5, 4.5, 4, 3.5, 4.5, 5, 3, 4, 4.5, 4},
		{3.5},
		{2.5, 3, 3.5, 4, 4.5, 5, 0.5},
		{4, 4, 4},
	}
	for _, ratings := range samples {
		table, err := distribution.Frequencies(distribution.NewSample("x", ratings))
		if err != nil {
			t.Fatalf("Frequencies(%v): %v", ratings, err)
		}
		if math.Abs(table.Total()-100) > 1e-6 {
			t.Fatalf("percentages of %v sum to %v", ratings, table.Total())
		}
		for i := 1; i < len(table.Rows); i++ {
			if table.Rows[i-1].Rating >= table.Rows[i].Rating {
				t.Fatalf("rows not ascending: %+v", table.Rows)
			}
		}
	}
}

func TestFrequenciesCountsExactValues(t *testing.T) {
	table, err := distribution.Frequencies(distribution.NewSample("2015", []float64{5, 4.5, 4.5, 4}))
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}
	if table.N != 4 || len(table.Rows) != 3 {
		t.Fatalf("unexpected table: %+v", table)
	}
	want := []distribution.Frequency{
		{Rating: 4, Count: 1, Percent: 25},
		{Rating: 4.5, Count: 2, Percent: 50},
		{Rating: 5, Count: 1, Percent: 25},
	}
	for i, row := range table.Rows {
		if row != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, row, want[i])
		}
	}
	if table.Percent(4.5) != 50 || table.Percent(1) != 0 {
		t.Fatalf("unexpected Percent lookups")
	}
}

func TestNewSampleCopiesRatings(t *testing.T) {
	ratings := []float64{4, 5}
	s := distribution.NewSample("2015", ratings)
	ratings[0] = 1
	if s.Ratings[0] != 4 {
		t.Fatalf("sample aliases caller slice: %v", s.Ratings)
	}
}

func TestSummarize(t *testing.T) {
	previous := distribution.NewSample("2015", []float64{3.0, 4.0, 5.0, 5.0})
	after := distribution.NewSample("2016", []float64{3.5, 3.5, 4.0, 4.0, 4.5})

	summary, err := distribution.Summarize(previous, after)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Previous.Mean != 4.25 || summary.Previous.Median != 4.5 || summary.Previous.Mode != 5 {
		t.Fatalf("unexpected previous stats: %+v", summary.Previous)
	}
	if summary.After.Mean != 3.9 || summary.After.Median != 4 || summary.After.Mode != 3.5 {
		t.Fatalf("unexpected after stats: %+v", summary.After)
	}
	if summary.Previous.N != 4 || summary.After.N != 5 {
		t.Fatalf("unexpected sample sizes: %d/%d", summary.Previous.N, summary.After.N)
	}
	want := (4.25 - 3.9) / 4.25
	if math.Abs(summary.RelativeChange-want) > 1e-12 {
		t.Fatalf("RelativeChange = %v, want %v", summary.RelativeChange, want)
	}
	for _, name := range distribution.StatNames {
		if _, ok := summary.Previous.Value(name); !ok {
			t.Fatalf("Value(%q) not found", name)
		}
	}
	if _, ok := summary.Previous.Value("variance"); ok {
		t.Fatal("unexpected statistic")
	}
}

func TestDensityIntegratesToAboutOne(t *testing.T) {
	s := distribution.NewSample("2015", []float64{3, 3.5, 4, 4, 4.5, 4.5, 4.5, 5, 5, 4})
	opts := distribution.DensityOptions{Min: -2, Max: 7, Points: 901, FallbackBandwidth: 0.1}

	curve, err := distribution.Density(s, opts)
	if err != nil {
		t.Fatalf("Density: %v", err)
	}
	if len(curve.Points) != 901 {
		t.Fatalf("expected 901 points, got %d", len(curve.Points))
	}
	if curve.Points[0].X != -2 || math.Abs(curve.Points[900].X-7) > 1e-9 {
		t.Fatalf("grid does not span the range: %v..%v", curve.Points[0].X, curve.Points[900].X)
	}
	var area float64
	for i := 1; i < len(curve.Points); i++ {
		dx := curve.Points[i].X - curve.Points[i-1].X
		area += dx * (curve.Points[i].Y + curve.Points[i-1].Y) / 2
	}
	if math.Abs(area-1) > 1e-3 {
		t.Fatalf("density integrates to %v", area)
	}
	if want := distribution.ScottBandwidth(s.Ratings); curve.Bandwidth != want {
		t.Fatalf("bandwidth = %v, want %v", curve.Bandwidth, want)
	}
}

func TestDensityPeaksNearModeAndFallsBackWithoutSpread(t *testing.T) {
	s := distribution.NewSample("2016", []float64{4, 4, 4})
	opts := distribution.DefaultDensityOptions()
	opts.Points = 11

	curve, err := distribution.Density(s, opts)
	if err != nil {
		t.Fatalf("Density: %v", err)
	}
	if curve.Bandwidth != opts.FallbackBandwidth {
		t.Fatalf("expected fallback bandwidth, got %v", curve.Bandwidth)
	}
	peak := curve.Points[0]
	for _, p := range curve.Points {
		if p.Y > peak.Y {
			peak = p
		}
	}
	if peak.X != 4 {
		t.Fatalf("expected peak at 4, got %v", peak.X)
	}

	opts.Points = 1
	if _, err := distribution.Density(s, opts); err == nil {
		t.Fatal("expected error for single grid point")
	}
}
