package config

const (
	defaultConfigPath        = "~/.config/ratingdrift/config.toml"
	projectConfigName        = "ratingdrift.toml"
	defaultPreviousPath      = "fandango_score_comparison.csv"
	defaultAfterPath         = "movie_ratings_16_17.csv"
	defaultPreviousYear      = 2015
	defaultAfterYear         = 2016
	defaultYearMode          = YearModeStrict
	defaultMinVotes          = 30
	defaultSampleSize        = 10
	defaultSeed              = 1
	defaultDensityPoints     = 256
	defaultFallbackBandwidth = 0.1
	defaultReportWidth       = 100
	defaultChartDir          = "charts"
	defaultChartFormat       = "svg"
	defaultColorMode         = ColorAuto
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Year derivation modes for titles in the previous dataset.
const (
	// YearModeStrict parses a trailing "(YYYY)" and rejects anything else.
	YearModeStrict = "strict"
	// YearModeSlice takes the four characters before the final one, as the
	// published analysis did.
	YearModeSlice = "slice"
)

// Colour modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Inputs: Inputs{
			PreviousPath: defaultPreviousPath,
			AfterPath:    defaultAfterPath,
		},
		Analysis: Analysis{
			PreviousYear: defaultPreviousYear,
			AfterYear:    defaultAfterYear,
			YearMode:     defaultYearMode,
			MinVotes:     defaultMinVotes,
			SampleSize:   defaultSampleSize,
			Seed:         defaultSeed,
		},
		Density: Density{
			Points:            defaultDensityPoints,
			FallbackBandwidth: defaultFallbackBandwidth,
		},
		Report: Report{
			Width:       defaultReportWidth,
			ChartDir:    defaultChartDir,
			ChartFormat: defaultChartFormat,
			Charts:      true,
			Color:       defaultColorMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
