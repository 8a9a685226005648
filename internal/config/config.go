package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Inputs names the two rating datasets.
type Inputs struct {
	PreviousPath string `toml:"previous_path"`
	AfterPath    string `toml:"after_path"`
}

// Analysis contains the comparison parameters.
type Analysis struct {
	PreviousYear int    `toml:"previous_year"`
	AfterYear    int    `toml:"after_year"`
	YearMode     string `toml:"year_mode"`
	MinVotes     int    `toml:"min_votes"`
	SampleSize   int    `toml:"sample_size"`
	// Seed drives the preview sample only; statistics never depend on it.
	Seed uint64 `toml:"seed"`
}

// Density contains kernel density estimation settings.
type Density struct {
	Points            int     `toml:"points"`
	FallbackBandwidth float64 `toml:"fallback_bandwidth"`
}

// Report contains presentation settings.
type Report struct {
	Width       int    `toml:"width"`
	ChartDir    string `toml:"chart_dir"`
	ChartFormat string `toml:"chart_format"`
	Charts      bool   `toml:"charts"`
	Color       string `toml:"color"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File, when set, receives a copy of every log line alongside stderr.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for ratingdrift.
//
// Configuration sections:
//   - Inputs: dataset file locations
//   - Analysis: target years, year derivation mode, popularity threshold, preview sampling
//   - Density: kernel density grid and bandwidth fallback
//   - Report: table width, chart output directory and format, colour mode
//   - Logging: log format and level
type Config struct {
	Inputs   Inputs   `toml:"inputs"`
	Analysis Analysis `toml:"analysis"`
	Density  Density  `toml:"density"`
	Report   Report   `toml:"report"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the chart output directory when charts are enabled.
func (c *Config) EnsureDirectories() error {
	if !c.Report.Charts {
		return nil
	}
	if err := os.MkdirAll(c.Report.ChartDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Report.ChartDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
