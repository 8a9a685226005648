package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeInputs(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeDensity()
	if err := c.normalizeReport(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeInputs() error {
	var err error
	c.Inputs.PreviousPath = strings.TrimSpace(c.Inputs.PreviousPath)
	if c.Inputs.PreviousPath == "" {
		c.Inputs.PreviousPath = defaultPreviousPath
	}
	if c.Inputs.PreviousPath, err = expandPath(c.Inputs.PreviousPath); err != nil {
		return fmt.Errorf("inputs.previous_path: %w", err)
	}
	c.Inputs.AfterPath = strings.TrimSpace(c.Inputs.AfterPath)
	if c.Inputs.AfterPath == "" {
		c.Inputs.AfterPath = defaultAfterPath
	}
	if c.Inputs.AfterPath, err = expandPath(c.Inputs.AfterPath); err != nil {
		return fmt.Errorf("inputs.after_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.YearMode = strings.ToLower(strings.TrimSpace(c.Analysis.YearMode))
	if c.Analysis.YearMode == "" {
		c.Analysis.YearMode = defaultYearMode
	}
	if c.Analysis.SampleSize < 0 {
		c.Analysis.SampleSize = 0
	}
}

func (c *Config) normalizeDensity() {
	if c.Density.Points <= 0 {
		c.Density.Points = defaultDensityPoints
	}
	if c.Density.FallbackBandwidth <= 0 {
		c.Density.FallbackBandwidth = defaultFallbackBandwidth
	}
}

func (c *Config) normalizeReport() error {
	var err error
	if c.Report.Width <= 0 {
		c.Report.Width = defaultReportWidth
	}
	c.Report.ChartDir = strings.TrimSpace(c.Report.ChartDir)
	if c.Report.ChartDir == "" {
		c.Report.ChartDir = defaultChartDir
	}
	if c.Report.ChartDir, err = expandPath(c.Report.ChartDir); err != nil {
		return fmt.Errorf("report.chart_dir: %w", err)
	}
	c.Report.ChartFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Report.ChartFormat), "."))
	if c.Report.ChartFormat == "" {
		c.Report.ChartFormat = defaultChartFormat
	}
	c.Report.Color = strings.ToLower(strings.TrimSpace(c.Report.Color))
	if c.Report.Color == "" {
		c.Report.Color = defaultColorMode
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok && c.Report.Color == ColorAuto {
		c.Report.Color = ColorNever
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		var err error
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
