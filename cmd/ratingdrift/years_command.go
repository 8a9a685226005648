package main

import (
	"strings"

	"github.com/spf13/cobra"

	"ratingdrift/internal/analysis"
	"ratingdrift/internal/report"
)

type yearsOutput struct {
	YearMode string              `json:"year_mode"`
	Before   analysis.YearCounts `json:"before"`
	After    analysis.YearCounts `json:"after"`
	Failures []analysis.Issue    `json:"derivation_failures"`
}

func newYearsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var yearMode string

	cmd := &cobra.Command{
		Use:   "years",
		Short: "Show release year counts before and after filtering",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if mode := strings.TrimSpace(yearMode); mode != "" {
				cfg.Analysis.YearMode = strings.ToLower(mode)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			result, err := analysis.RunYears(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, yearsOutput{
					YearMode: result.YearMode,
					Before:   result.YearsBefore,
					After:    result.YearsAfter,
					Failures: result.Failures,
				})
			}
			report.New(report.OptionsFromConfig(cfg, cmd.OutOrStdout(), logger)).RenderYears(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print year counts as JSON")
	cmd.Flags().StringVar(&yearMode, "year-mode", "", "Override analysis.year_mode (strict or slice)")
	return cmd
}
