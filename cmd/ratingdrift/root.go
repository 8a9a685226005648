package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)
	compareOpts := &compareOptions{}

	rootCmd := &cobra.Command{
		Use:   "ratingdrift",
		Short: "Compare Fandango movie ratings before and after 2015",
		Long: "ratingdrift compares Fandango's ratings for popular movies released in 2015 " +
			"with those released in 2016 to check whether the rating system changed.\n\n" +
			"Running ratingdrift without a subcommand is the same as `ratingdrift compare`.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, ctx, compareOpts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.previous, "previous", "", "Override inputs.previous_path")
	rootCmd.PersistentFlags().StringVar(&flags.after, "after", "", "Override inputs.after_path")
	compareOpts.bind(rootCmd)

	rootCmd.AddCommand(newCompareCommand(ctx))
	rootCmd.AddCommand(newYearsCommand(ctx))
	rootCmd.AddCommand(newSampleCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
