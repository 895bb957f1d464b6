package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Split    SplitConfig    `yaml:"split" envconfig:"SPLIT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against the executable directory by GetPaths.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR"`
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig contains the transform options recognized by the pipeline
type PipelineConfig struct {
	// CategoryCap is the maximum number of indicator columns emitted per
	// categorical column, the "Other" bucket included.
	CategoryCap int `yaml:"category_cap" envconfig:"CATEGORY_CAP" validate:"min=2"`
	// KeepOriginalCategorical retains the source column next to its
	// indicator columns instead of dropping it after encoding.
	KeepOriginalCategorical bool `yaml:"keep_original_categorical" envconfig:"KEEP_ORIGINAL_CATEGORICAL"`
	// OneHotEncode toggles the categorical path as a whole.
	OneHotEncode bool `yaml:"one_hot_encode" envconfig:"ONE_HOT_ENCODE"`
	// ExcludedColumns are identifier columns skipped by outlier handling
	// and encoding regardless of inferred kind.
	ExcludedColumns []string `yaml:"excluded_columns" envconfig:"EXCLUDED_COLUMNS"`
	// OutlierMethod and ScalingMethod are fixed; they are configuration
	// surface so a future method lands as a value, not a new flag.
	OutlierMethod string `yaml:"outlier_method" envconfig:"OUTLIER_METHOD" validate:"oneof=iqr"`
	ScalingMethod string `yaml:"scaling_method" envconfig:"SCALING_METHOD" validate:"oneof=minmax"`
	// MissingStrategy selects the numeric imputation statistic.
	MissingStrategy string `yaml:"missing_strategy" envconfig:"MISSING_STRATEGY" validate:"oneof=mean median"`
}

// SplitConfig contains train/test split parameters
type SplitConfig struct {
	TestSize float64 `yaml:"test_size" envconfig:"TEST_SIZE" validate:"gt=0,lt=1"`
	Seed     int64   `yaml:"seed" envconfig:"SEED"`
}

// IsExcluded reports whether a column is on the identifier denylist
func (p PipelineConfig) IsExcluded(column string) bool {
	for _, name := range p.ExcludedColumns {
		if name == column {
			return true
		}
	}
	return false
}

// Load loads configuration from environment variables and config file.
// Environment variables (prefix CROP) take precedence over the YAML file,
// which takes precedence over Default. Defaults live in Default only; the
// envconfig tags carry no default values, so Process leaves every field
// untouched unless its variable is actually set.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = fileConfig
	}

	if err := envconfig.Process("CROP", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file, with struct defaults
// applied first so partial files are valid.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if len(c.Pipeline.ExcludedColumns) == 0 {
		// An empty denylist would let identifier columns be scaled.
		c.Pipeline.ExcludedColumns = Default().Pipeline.ExcludedColumns
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/preprocess.log",
		},
		Paths: PathsConfig{
			DataDir:      "data",
			RawDir:       "raw",
			ProcessedDir: "processed",
			LogsDir:      "logs",
		},
		Pipeline: PipelineConfig{
			CategoryCap:             10,
			KeepOriginalCategorical: false,
			OneHotEncode:            true,
			ExcludedColumns:         []string{"Year", "Year Code", "Area Code", "Element Code", "Item Code"},
			OutlierMethod:           "iqr",
			ScalingMethod:           "minmax",
			MissingStrategy:         "mean",
		},
		Split: SplitConfig{
			TestSize: 0.2,
			Seed:     42,
		},
	}
}
