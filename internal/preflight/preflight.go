package preflight

import (
	"ratingdrift/internal/config"
	"ratingdrift/internal/dataset"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDataset("Previous dataset", cfg.Inputs.PreviousPath, dataset.Previous),
		CheckDataset("After dataset", cfg.Inputs.AfterPath, dataset.After),
	}

	// Chart directory (only when charts are enabled)
	if cfg.Report.Charts {
		results = append(results, CheckChartDirectory("Chart directory", cfg.Report.ChartDir))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
