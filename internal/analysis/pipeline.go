package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"ratingdrift/internal/config"
	"ratingdrift/internal/dataset"
	"ratingdrift/internal/distribution"
	"ratingdrift/internal/logging"
	"ratingdrift/internal/releaseyear"
)

// PreviousYearColumn is the column Derive appends to the previous dataset.
const PreviousYearColumn = "Year"

// Stage names, in execution order.
const (
	StageLoad     = "load"
	StageSelect   = "select"
	StageDerive   = "derive_year"
	StageYears    = "year_counts"
	StageFilter   = "filter"
	StageVotes    = "popularity"
	StagePreview  = "preview"
	StageCompare  = "compare"
	componentName = "analysis"
)

// failureSampleLimit caps how many offending titles a warning lists.
const failureSampleLimit = 5

// HeadRows is how many leading rows of each selected dataset a result keeps.
const HeadRows = 3

type stage struct {
	name string
	run  func(context.Context, *slog.Logger) error
}

type pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	result *Result

	previous         dataframe.DataFrame
	after            dataframe.DataFrame
	previousFiltered dataframe.DataFrame
	afterFiltered    dataframe.DataFrame
}

// Run executes every stage in order: load, select, derive the previous
// dataset's release years, count years, filter to the target years, check
// vote counts, draw the preview, and compare the two rating distributions.
// The first failing stage aborts the run.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	p, err := newPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}
	return p.execute(ctx,
		p.stageLoad(), p.stageSelect(), p.stageDerive(), p.stageYears(),
		p.stageFilter(), p.stageVotes(), p.stagePreview(), p.stageCompare(),
	)
}

// RunYears stops after filtering. The result carries year counts and
// derivation failures only.
func RunYears(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	p, err := newPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}
	return p.execute(ctx,
		p.stageLoad(), p.stageSelect(), p.stageDerive(), p.stageYears(), p.stageFilter(),
	)
}

// RunPreview loads the datasets and draws the preview sample only.
func RunPreview(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	p, err := newPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}
	return p.execute(ctx, p.stageLoad(), p.stageSelect(), p.stagePreview())
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	if cfg == nil {
		return nil, errors.New("analysis requires config")
	}
	return &pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, componentName),
		result: &Result{
			RunID:    uuid.NewString(),
			YearMode: cfg.Analysis.YearMode,
			MinVotes: cfg.Analysis.MinVotes,
		},
	}, nil
}

func (p *pipeline) execute(ctx context.Context, stages ...stage) (*Result, error) {
	ctx = logging.WithRunID(ctx, p.result.RunID)
	runLogger := logging.WithContext(ctx, p.logger)
	start := time.Now()
	runLogger.Info("analysis started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("previous_path", p.cfg.Inputs.PreviousPath),
		logging.String("after_path", p.cfg.Inputs.AfterPath),
		logging.Int("stages", len(stages)),
	)

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			runLogger.Warn("analysis cancelled",
				logging.String(logging.FieldEventType, "run_cancelled"),
				logging.String("next_stage", s.name),
			)
			return nil, err
		}
		stageCtx := logging.WithStage(ctx, s.name)
		stageLogger := logging.WithContext(stageCtx, p.logger)
		stageStart := time.Now()
		if err := s.run(stageCtx, stageLogger); err != nil {
			stageLogger.Error("stage failed",
				logging.String(logging.FieldEventType, "stage_failed"),
				logging.Error(err),
			)
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		stageLogger.Debug("stage completed",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.Duration("duration", time.Since(stageStart)),
		)
	}

	runLogger.Info("analysis completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Duration("duration", time.Since(start)),
	)
	return p.result, nil
}

func (p *pipeline) stageLoad() stage {
	return stage{name: StageLoad, run: func(_ context.Context, logger *slog.Logger) error {
		pair, err := dataset.LoadPair(p.cfg.Inputs.PreviousPath, p.cfg.Inputs.AfterPath)
		if err != nil {
			return err
		}
		p.previous, p.after = pair.Previous, pair.After
		logger.Info("datasets loaded",
			logging.Int("previous_rows", p.previous.Nrow()),
			logging.Int("previous_columns", p.previous.Ncol()),
			logging.Int("after_rows", p.after.Nrow()),
			logging.Int("after_columns", p.after.Ncol()),
		)
		return nil
	}}
}

func (p *pipeline) stageSelect() stage {
	return stage{name: StageSelect, run: func(_ context.Context, logger *slog.Logger) error {
		previous, err := dataset.Select(p.previous, dataset.PreviousColumns...)
		if err != nil {
			return fmt.Errorf("previous dataset: %w", err)
		}
		after, err := dataset.Select(p.after, dataset.AfterColumns...)
		if err != nil {
			return fmt.Errorf("after dataset: %w", err)
		}
		p.previous, p.after = previous, after

		previousHead, err := Head(previous, HeadRows)
		if err != nil {
			return fmt.Errorf("previous dataset: %w", err)
		}
		afterHead, err := Head(after, HeadRows)
		if err != nil {
			return fmt.Errorf("after dataset: %w", err)
		}
		p.result.Heads = Heads{Previous: tableFromFrame(previousHead), After: tableFromFrame(afterHead)}

		logger.Info("comparison columns selected",
			logging.String("previous_columns", strings.Join(previous.Names(), ",")),
			logging.String("after_columns", strings.Join(after.Names(), ",")),
		)
		return nil
	}}
}

func (p *pipeline) stageDerive() stage {
	return stage{name: StageDerive, run: func(_ context.Context, logger *slog.Logger) error {
		mode := releaseyear.Mode(p.cfg.Analysis.YearMode)
		derived, failures, err := releaseyear.Derive(p.previous, dataset.ColFilm, PreviousYearColumn, mode)
		if err != nil {
			return err
		}
		p.previous = derived
		p.result.Failures = issuesFrom(failures)
		logger.Info("release years derived",
			logging.String("mode", string(mode)),
			logging.Int("rows", derived.Nrow()),
			logging.Int("failures", len(failures)),
		)
		if len(failures) > 0 {
			impact := "rows were left without a year and drop out of the comparison"
			if mode == releaseyear.Slice {
				impact = "rows received a year sliced from an unexpected title shape"
			}
			logging.WarnWithContext(logger, "titles without a trailing release year", "year_derivation_failed",
				logging.Alert("year_derivation"),
				logging.Int("count", len(failures)),
				logging.String("rows", describeFailures(failures, failureSampleLimit)),
				logging.String(logging.FieldErrorHint, `expected titles ending with "(YYYY)"`),
				logging.String(logging.FieldImpact, impact),
			)
		}
		return nil
	}}
}

func (p *pipeline) stageYears() stage {
	return stage{name: StageYears, run: func(_ context.Context, logger *slog.Logger) error {
		counts, err := yearCounts(p.previous, p.after)
		if err != nil {
			return err
		}
		p.result.YearsBefore = counts
		logger.Info("release years counted",
			logging.Int("previous_distinct", len(counts.Previous)),
			logging.Int("after_distinct", len(counts.After)),
		)
		return nil
	}}
}

func (p *pipeline) stageFilter() stage {
	return stage{name: StageFilter, run: func(_ context.Context, logger *slog.Logger) error {
		previousTarget := releaseyear.Text(strconv.Itoa(p.cfg.Analysis.PreviousYear))
		afterTarget := releaseyear.Number(p.cfg.Analysis.AfterYear)

		previous, err := releaseyear.Filter(p.previous, PreviousYearColumn, previousTarget)
		if err != nil {
			return fmt.Errorf("previous dataset: %w", err)
		}
		after, err := releaseyear.Filter(p.after, dataset.ColYear, afterTarget)
		if err != nil {
			return fmt.Errorf("after dataset: %w", err)
		}
		p.previousFiltered, p.afterFiltered = previous, after

		counts, err := yearCounts(previous, after)
		if err != nil {
			return err
		}
		p.result.YearsAfter = counts
		logger.Info("datasets filtered to target years",
			logging.String("previous_year", previousTarget.String()),
			logging.Int("previous_rows", previous.Nrow()),
			logging.String("after_year", afterTarget.String()),
			logging.Int("after_rows", after.Nrow()),
		)
		return nil
	}}
}

func (p *pipeline) stageVotes() stage {
	return stage{name: StageVotes, run: func(_ context.Context, logger *slog.Logger) error {
		low, err := releaseyear.CountBelow(p.previous, dataset.ColVotes, p.cfg.Analysis.MinVotes)
		if err != nil {
			return err
		}
		p.result.LowVotes = low
		logger.Info("popularity checked",
			logging.Int("min_votes", p.cfg.Analysis.MinVotes),
			logging.Int("below_threshold", low),
		)
		if low > 0 {
			logging.WarnWithContext(logger, "movies below the popularity threshold", "low_vote_movies",
				logging.Int("count", low),
				logging.Int("min_votes", p.cfg.Analysis.MinVotes),
				logging.String(logging.FieldErrorHint, "the previous sample is expected to hold popular movies only"),
			)
		}
		return nil
	}}
}

func (p *pipeline) stagePreview() stage {
	return stage{name: StagePreview, run: func(_ context.Context, logger *slog.Logger) error {
		preview, err := SamplePreview(p.after, p.cfg.Analysis.SampleSize, p.cfg.Analysis.Seed)
		if err != nil {
			return err
		}
		p.result.Preview = tableFromFrame(preview)
		logger.Info("preview sampled",
			logging.Int("rows", preview.Nrow()),
			logging.Any("seed", p.cfg.Analysis.Seed),
		)
		return nil
	}}
}

func (p *pipeline) stageCompare() stage {
	return stage{name: StageCompare, run: func(_ context.Context, logger *slog.Logger) error {
		previousRatings, err := dataset.Floats(p.previousFiltered, dataset.ColStars)
		if err != nil {
			return fmt.Errorf("previous ratings: %w", err)
		}
		afterRatings, err := dataset.Floats(p.afterFiltered, dataset.ColFandango)
		if err != nil {
			return fmt.Errorf("after ratings: %w", err)
		}
		previous := distribution.NewSample(strconv.Itoa(p.cfg.Analysis.PreviousYear), previousRatings)
		after := distribution.NewSample(strconv.Itoa(p.cfg.Analysis.AfterYear), afterRatings)

		summary, err := distribution.Summarize(previous, after)
		if err != nil {
			return err
		}
		previousFreq, err := distribution.Frequencies(previous)
		if err != nil {
			return err
		}
		afterFreq, err := distribution.Frequencies(after)
		if err != nil {
			return err
		}

		opts := distribution.DefaultDensityOptions()
		opts.Points = p.cfg.Density.Points
		opts.FallbackBandwidth = p.cfg.Density.FallbackBandwidth
		previousCurve, err := distribution.Density(previous, opts)
		if err != nil {
			return err
		}
		afterCurve, err := distribution.Density(after, opts)
		if err != nil {
			return err
		}

		p.result.Previous, p.result.After = previous, after
		p.result.PreviousFrequencies, p.result.AfterFrequencies = previousFreq, afterFreq
		p.result.PreviousDensity, p.result.AfterDensity = previousCurve, afterCurve
		p.result.Summary = summary

		logger.Info("distributions compared",
			logging.Group("previous",
				logging.Float64("mean", summary.Previous.Mean),
				logging.Float64("bandwidth", previousCurve.Bandwidth),
			),
			logging.Group("after",
				logging.Float64("mean", summary.After.Mean),
				logging.Float64("bandwidth", afterCurve.Bandwidth),
			),
			logging.Float64("relative_change", summary.RelativeChange),
		)
		return nil
	}}
}

func yearCounts(previous, after dataframe.DataFrame) (YearCounts, error) {
	prev, err := releaseyear.Frequencies(previous, PreviousYearColumn)
	if err != nil {
		return YearCounts{}, fmt.Errorf("previous dataset: %w", err)
	}
	next, err := releaseyear.Frequencies(after, dataset.ColYear)
	if err != nil {
		return YearCounts{}, fmt.Errorf("after dataset: %w", err)
	}
	return YearCounts{Previous: prev, After: next}, nil
}

func describeFailures(failures []releaseyear.Failure, limit int) string {
	parts := make([]string, 0, min(len(failures), limit)+1)
	for i, f := range failures {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(failures)-limit))
			break
		}
		parts = append(parts, fmt.Sprintf("%d:%q", f.Row, f.Title))
	}
	return strings.Join(parts, ", ")
}
