package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"ratingdrift/internal/analysis"
	"ratingdrift/internal/distribution"
	"ratingdrift/internal/logging"
	"ratingdrift/internal/textutil"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5.5 * vg.Inch
	lockName    = ".ratingdrift.lock"
)

var (
	previousColor = color.RGBA{R: 0x00, G: 0x66, B: 0xFF, A: 0xFF}
	afterColor    = color.RGBA{R: 0xCC, G: 0x00, B: 0x00, A: 0xFF}
)

// ErrChartDirLocked reports another run writing to the same chart directory.
var ErrChartDirLocked = errors.New("chart directory is locked by another run")

// DensityChart draws both density curves over the 0 to 5 star range and
// returns the written file path.
func (r *Reporter) DensityChart(result *analysis.Result) (string, error) {
	if !result.Compared() {
		return "", errors.New("density chart: no comparison in result")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Comparing distribution shapes for Fandango's ratings (%s vs %s)",
		result.Previous.Label, result.After.Label)
	p.X.Label.Text = "Stars"
	p.Y.Label.Text = "Density"
	p.Legend.Top = true

	for _, series := range []struct {
		curve distribution.Curve
		color color.Color
	}{
		{result.PreviousDensity, previousColor},
		{result.AfterDensity, afterColor},
	} {
		line, err := plotter.NewLine(curveXYs(series.curve))
		if err != nil {
			return "", fmt.Errorf("density chart: %w", err)
		}
		line.Color = series.color
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(series.curve.Label, line)
	}

	p.X.Min, p.X.Max = 0, 5
	p.X.Tick.Marker = halfStarTicks(5)
	p.Y.Min = 0

	return r.saveChart(p, ChartFileName("density", result.Previous.Label, result.After.Label))
}

// SummaryChart draws mean, median and mode of both samples as grouped bars
// and returns the written file path.
func (r *Reporter) SummaryChart(result *analysis.Result) (string, error) {
	if !result.Compared() {
		return "", errors.New("summary chart: no comparison in result")
	}
	summary := result.Summary
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Comparing summary statistics: %s vs %s",
		summary.Previous.Label, summary.After.Label)
	p.Y.Label.Text = "Stars"
	p.Legend.Top = true

	barWidth := vg.Points(30)
	for i, group := range []struct {
		stats distribution.Stats
		color color.Color
	}{
		{summary.Previous, previousColor},
		{summary.After, afterColor},
	} {
		values := make(plotter.Values, 0, len(distribution.StatNames))
		for _, name := range distribution.StatNames {
			v, _ := group.stats.Value(name)
			values = append(values, v)
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return "", fmt.Errorf("summary chart: %w", err)
		}
		bars.Color = group.color
		bars.LineStyle.Width = 0
		bars.Offset = barWidth * vg.Length(2*i-1) / 2
		p.Add(bars)
		p.Legend.Add(group.stats.Label, bars)
	}

	p.NominalX("Mean", "Median", "Mode")
	p.Y.Min, p.Y.Max = 0, 5.5
	p.Y.Tick.Marker = halfStarTicks(5.5)

	return r.saveChart(p, ChartFileName("summary", summary.Previous.Label, summary.After.Label))
}

// WriteCharts writes both charts under an advisory lock on the chart
// directory. It returns the paths written and the joined errors of the
// charts that failed.
func (r *Reporter) WriteCharts(result *analysis.Result) ([]string, error) {
	var paths []string
	err := r.withChartLock(func() error {
		var errs []error
		for _, draw := range []func(*analysis.Result) (string, error){r.DensityChart, r.SummaryChart} {
			path, err := draw(result)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			paths = append(paths, path)
		}
		return errors.Join(errs...)
	})
	return paths, err
}

func (r *Reporter) withChartLock(fn func() error) error {
	dir := r.opts.ChartDir
	if dir == "" {
		return errors.New("chart directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire chart lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrChartDirLocked, dir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release chart lock", logging.Error(err))
		}
	}()
	return fn()
}

// ChartFileName names a chart file after its kind and the two sample labels,
// for example "density_2015_vs_2016". The extension is added on save.
func ChartFileName(kind, previous, after string) string {
	return textutil.SanitizeToken(kind + " " + previous + " vs " + after)
}

func (r *Reporter) saveChart(p *plot.Plot, name string) (string, error) {
	format := r.opts.ChartFormat
	if format == "" {
		format = "svg"
	}
	path := filepath.Join(r.opts.ChartDir, name+"."+format)
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", fmt.Errorf("save %s chart: %w", name, err)
	}
	return path, nil
}

func curveXYs(curve distribution.Curve) plotter.XYs {
	xys := make(plotter.XYs, len(curve.Points))
	for i, pt := range curve.Points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}
	return xys
}

func halfStarTicks(upTo float64) plot.ConstantTicks {
	var ticks []plot.Tick
	for v := 0.0; v <= upTo+1e-9; v += 0.5 {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 1, 64)})
	}
	return ticks
}
