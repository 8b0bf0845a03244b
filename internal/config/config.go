/*
PURPOSE:
  Defines the configuration structure and loading logic for pi-accuracy.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the reference digits file and run file names.
  - Allow configuration of where analysis outputs are written.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support Environment variables overrides (PIACC_...).
  - Cheetah campaigns use fixed file names inside each run directory;
    those are the defaults.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3, github.com/caarlos0/env/v11

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default config files are not an error (falls back to defaults).

IMPLEMENTATION RULES:
  - Config struct tags support yaml and env.
  - Precedence: defaults < file < environment < CLI flags.

USAGE:
  cfg, err := config.Load("pi_accuracy.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and DefaultConfig().

RELATED FILES:
  - internal/cli/analyze.go

MAINTENANCE:
  - Update when adding new outputs or run file conventions.
*/

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFiles are searched, in order, when no config path is given.
var DefaultFiles = []string{"pi_accuracy.yaml", "analysis.yaml"}

// Config represents the full configuration for pi-accuracy.
type Config struct {
	ReferencePath string `yaml:"reference_path" env:"PIACC_REFERENCE"`

	// File names inside each run directory.
	StdoutName   string `yaml:"stdout_name" env:"PIACC_STDOUT_NAME"`
	ParamName    string `yaml:"param_name" env:"PIACC_PARAM_NAME"`
	WalltimeName string `yaml:"walltime_name" env:"PIACC_WALLTIME_NAME"`

	OutputDir    string `yaml:"output_dir" env:"PIACC_OUTPUT_DIR"`
	AnalysisFile string `yaml:"analysis_file" env:"PIACC_ANALYSIS_FILE"`
	RecordsCSV   string `yaml:"records_csv" env:"PIACC_RECORDS_CSV"`
	RecordsJSON  string `yaml:"records_json" env:"PIACC_RECORDS_JSON"`
	SummaryJSON  string `yaml:"summary_json" env:"PIACC_SUMMARY_JSON"`

	// Database is a SQLite path. Empty disables persistence.
	Database string `yaml:"database" env:"PIACC_DATABASE"`

	// Workers bounds how many run directories are read concurrently.
	Workers int `yaml:"workers" env:"PIACC_WORKERS"`

	LogLevel  string `yaml:"log_level" env:"PIACC_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"PIACC_LOG_FORMAT"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ReferencePath: "pi1M.txt",
		StdoutName:    "codar.cheetah.run-output.txt",
		ParamName:     "codar.cheetah.params.json",
		WalltimeName:  "codar.cheetah.walltime.txt",
		OutputDir:     ".",
		AnalysisFile:  "analysis.txt",
		RecordsCSV:    "run_records.csv",
		RecordsJSON:   "run_records.jsonl",
		SummaryJSON:   "summary.json",
		Workers:       8,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load reads configuration from a file and applies environment overrides.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// If no file is found, the defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", name, err)
			}
		}
	}

	if path != "" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks that settings needed by every analysis are present.
func (c *Config) Validate() error {
	switch {
	case c.ReferencePath == "":
		return errors.New("reference_path must be set")
	case c.StdoutName == "":
		return errors.New("stdout_name must be set")
	case c.WalltimeName == "":
		return errors.New("walltime_name must be set")
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
