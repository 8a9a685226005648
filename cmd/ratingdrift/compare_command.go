package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ratingdrift/internal/analysis"
	"ratingdrift/internal/config"
	"ratingdrift/internal/report"
)

type compareOptions struct {
	json     bool
	noCharts bool
	yearMode string
	chartDir string
}

func (o *compareOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the full result as JSON instead of tables")
	cmd.Flags().BoolVar(&o.noCharts, "no-charts", false, "Skip chart rendering")
	cmd.Flags().StringVar(&o.yearMode, "year-mode", "", "Override analysis.year_mode (strict or slice)")
	cmd.Flags().StringVar(&o.chartDir, "chart-dir", "", "Override report.chart_dir")
}

func (o *compareOptions) apply(cfg *config.Config) error {
	if o.noCharts {
		cfg.Report.Charts = false
	}
	if mode := strings.TrimSpace(o.yearMode); mode != "" {
		cfg.Analysis.YearMode = strings.ToLower(mode)
	}
	if dir := strings.TrimSpace(o.chartDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return fmt.Errorf("--chart-dir: %w", err)
		}
		cfg.Report.ChartDir = expanded
	}
	return cfg.Validate()
}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	opts := &compareOptions{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the full comparison and print tables and charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, ctx, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runCompare(cmd *cobra.Command, ctx *commandContext, opts *compareOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	result, err := analysis.Run(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(cmd, result)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	reporter := report.New(report.OptionsFromConfig(cfg, cmd.OutOrStdout(), logger))
	return reporter.Render(result)
}
