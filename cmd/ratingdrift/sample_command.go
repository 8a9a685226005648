package main

import (
	"github.com/spf13/cobra"

	"ratingdrift/internal/analysis"
	"ratingdrift/internal/report"
)

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var size int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Show a reproducible random sample of the after dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("size") {
				cfg.Analysis.SampleSize = size
			}
			if cmd.Flags().Changed("seed") {
				cfg.Analysis.Seed = seed
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			result, err := analysis.RunPreview(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, result.Preview)
			}
			report.New(report.OptionsFromConfig(cfg, cmd.OutOrStdout(), logger)).PrintPreview(result.Preview)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the sample as JSON")
	cmd.Flags().IntVarP(&size, "size", "n", 0, "Rows to sample (default analysis.sample_size)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default analysis.seed)")
	return cmd
}
