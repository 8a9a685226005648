package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInputs(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateDensity(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateInputs() error {
	if strings.TrimSpace(c.Inputs.PreviousPath) == "" {
		return errors.New("inputs.previous_path must be set")
	}
	if strings.TrimSpace(c.Inputs.AfterPath) == "" {
		return errors.New("inputs.after_path must be set")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if err := ensurePositiveMap(map[string]int{
		"analysis.previous_year": c.Analysis.PreviousYear,
		"analysis.after_year":    c.Analysis.AfterYear,
	}); err != nil {
		return err
	}
	if c.Analysis.PreviousYear == c.Analysis.AfterYear {
		return errors.New("analysis.after_year must differ from analysis.previous_year")
	}
	switch c.Analysis.YearMode {
	case YearModeStrict, YearModeSlice:
	default:
		return fmt.Errorf("analysis.year_mode must be %q or %q, got %q", YearModeStrict, YearModeSlice, c.Analysis.YearMode)
	}
	if c.Analysis.MinVotes < 0 {
		return errors.New("analysis.min_votes must be >= 0")
	}
	return nil
}

func (c *Config) validateDensity() error {
	if c.Density.Points < 2 {
		return errors.New("density.points must be at least 2")
	}
	if c.Density.FallbackBandwidth <= 0 {
		return errors.New("density.fallback_bandwidth must be positive")
	}
	return nil
}

func (c *Config) validateReport() error {
	if c.Report.Width < 20 {
		return errors.New("report.width must be at least 20")
	}
	switch c.Report.ChartFormat {
	case "svg", "png", "pdf":
	default:
		return fmt.Errorf("report.chart_format must be svg, png, or pdf, got %q", c.Report.ChartFormat)
	}
	switch c.Report.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("report.color must be auto, always, or never, got %q", c.Report.Color)
	}
	if c.Report.Charts && strings.TrimSpace(c.Report.ChartDir) == "" {
		return errors.New("report.chart_dir must be set when report.charts is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
