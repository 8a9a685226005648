package testsupport

import (
	"path/filepath"
	"testing"

	"ratingdrift/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test. Inputs
// point at previous.csv and after.csv inside the temp directory; charts go to
// its charts/ subdirectory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Inputs.PreviousPath = filepath.Join(base, "previous.csv")
	cfgVal.Inputs.AfterPath = filepath.Join(base, "after.csv")
	cfgVal.Report.ChartDir = filepath.Join(base, "charts")
	cfgVal.Report.Color = config.ColorNever

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithoutCharts disables chart rendering.
func WithoutCharts() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.Charts = false
	}
}

// WithYearMode selects the title year derivation mode.
func WithYearMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.YearMode = mode
	}
}

// WithPreviousRows writes a previous-dataset fixture at the configured path.
func WithPreviousRows(rows []PreviousRow) ConfigOption {
	return func(b *configBuilder) {
		WritePreviousCSV(b.t, b.cfg.Inputs.PreviousPath, rows)
	}
}

// WithAfterRows writes an after-dataset fixture at the configured path.
func WithAfterRows(rows []AfterRow) ConfigOption {
	return func(b *configBuilder) {
		WriteAfterCSV(b.t, b.cfg.Inputs.AfterPath, rows)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Inputs.PreviousPath)
}
