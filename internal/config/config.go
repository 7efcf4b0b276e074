// Package config provides configuration management for the pensionqa tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOutputPath is used when no output file is given.
const DefaultOutputPath = "output.xlsx"

// Configuration validation errors.
var (
	ErrInvalid             = errors.New("invalid configuration")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat    = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidWorkers      = errors.New("processing.workers must be at least 1")
	ErrMissingOutputPath   = errors.New("output.default_path is required")
	ErrMissingSheetName    = errors.New("output.sheet_name is required")
	ErrInvalidTableName    = errors.New("output.table_name must be a plain SQL identifier")
	ErrInvalidPostalRegexp = errors.New("validation.postal_code_pattern is invalid regex")
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents the complete pensionqa configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Processing ProcessingConfig `yaml:"processing"`
	Output     OutputConfig     `yaml:"output"`
	Validation ValidationConfig `yaml:"validation"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProcessingConfig controls how rows are normalized.
type ProcessingConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	DefaultPath   string `yaml:"default_path"`
	SheetName     string `yaml:"sheet_name"`
	TableName     string `yaml:"table_name"`
	WriteManifest bool   `yaml:"write_manifest"`
}

// ValidationConfig defines input checks.
type ValidationConfig struct {
	// StrictHeader fails the run when the input header does not match the layout.
	StrictHeader bool `yaml:"strict_header"`
	// PostalCodePattern overrides the Canadian postal code format.
	PostalCodePattern string `yaml:"postal_code_pattern"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Processing: ProcessingConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			DefaultPath: DefaultOutputPath,
			SheetName:   "Sheet1",
			TableName:   "payees",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the file
// keep their default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrInvalid, err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Processing.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.Output.DefaultPath == "" {
		return ErrMissingOutputPath
	}

	if c.Output.SheetName == "" {
		return ErrMissingSheetName
	}

	if !tableNamePattern.MatchString(c.Output.TableName) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, c.Output.TableName)
	}

	if c.Validation.PostalCodePattern != "" {
		if _, err := regexp.Compile(c.Validation.PostalCodePattern); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPostalRegexp, err)
		}
	}

	return nil
}

// OutputPath returns path, or the configured default when path is empty.
func (c *Config) OutputPath(path string) string {
	if path != "" {
		return path
	}

	return c.Output.DefaultPath
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Level: %s, Workers: %d, Output: %s}",
		c.Logging.Level,
		c.Processing.Workers,
		c.Output.DefaultPath,
	)
}
