package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ratingdrift/internal/analysis"
	"ratingdrift/internal/config"
	"ratingdrift/internal/logging"
)

// Options controls where and how a report is written.
type Options struct {
	Out      io.Writer
	Colorize bool
	// Width is the display width tables are trimmed to.
	Width       int
	ChartDir    string
	ChartFormat string
	Charts      bool
	Logger      *slog.Logger
}

// OptionsFromConfig derives report options from cfg, writing to out.
func OptionsFromConfig(cfg *config.Config, out io.Writer, logger *slog.Logger) Options {
	return Options{
		Out:         out,
		Colorize:    ColorEnabled(cfg.Report.Color, out),
		Width:       cfg.Report.Width,
		ChartDir:    cfg.Report.ChartDir,
		ChartFormat: cfg.Report.ChartFormat,
		Charts:      cfg.Report.Charts,
		Logger:      logger,
	}
}

// Reporter prints analysis results and draws charts.
type Reporter struct {
	opts   Options
	logger *slog.Logger
}

// New builds a Reporter. A nil Out writes to stdout.
func New(opts Options) *Reporter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Reporter{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "report"),
	}
}

// Render prints every table of result, starting with the dataset heads, and
// then writes the charts. Chart
// failures are logged as warnings and never affect the printed statistics.
func (r *Reporter) Render(result *analysis.Result) error {
	if result == nil {
		return errors.New("report: nil result")
	}
	r.PrintHeads(result.Heads)
	r.RenderYears(result)
	r.PrintLowVotes(result)
	r.PrintPreview(result.Preview)
	if !result.Compared() {
		return nil
	}
	r.PrintFrequencies(result.PreviousFrequencies, result.AfterFrequencies)
	r.PrintSummary(result.Summary)

	if r.opts.Charts {
		r.renderCharts(result)
	}
	return nil
}

// RenderYears prints the year frequency checks and derivation failures.
func (r *Reporter) RenderYears(result *analysis.Result) {
	r.PrintYearCounts("Release years before filtering", result.YearsBefore)
	r.PrintFailures(result.Failures)
	r.PrintYearCounts("Release years after filtering", result.YearsAfter)
}

func (r *Reporter) renderCharts(result *analysis.Result) {
	logger := r.logger
	if result.RunID != "" {
		logger = logger.With(logging.String(logging.FieldRunID, result.RunID))
	}
	paths, err := r.WriteCharts(result)
	if err != nil {
		logging.WarnWithContext(logger, "chart rendering failed", "chart_failed",
			logging.Error(err),
			logging.String("chart_dir", r.opts.ChartDir),
			logging.String(logging.FieldErrorHint, "check the chart directory is writable and not used by another run"),
			logging.String(logging.FieldImpact, "statistics were printed without charts"),
		)
	}
	if len(paths) == 0 {
		return
	}
	r.section("Charts")
	for _, path := range paths {
		fmt.Fprintln(r.opts.Out, path)
		logger.Info("chart written", logging.String("path", path))
	}
	fmt.Fprintln(r.opts.Out)
}
