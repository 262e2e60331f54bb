// Package config loads the harvester configuration from a YAML file with
// WBOEMC_* environment-variable overrides, and validates it before any
// fetching begins. Configuration errors are the only fatal error class.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const dateLayout = "2006-01-02"

// Config represents the complete harvester configuration. YAML keys follow
// the original upper-case config file convention.
type Config struct {
	StartDate   string        `yaml:"START_DATE" envconfig:"START_DATE" validate:"required,datetime=2006-01-02"`
	EndDate     string        `yaml:"END_DATE" envconfig:"END_DATE" validate:"required,datetime=2006-01-02"`
	OutputDir   string        `yaml:"OUTPUT_DIR" envconfig:"OUTPUT_DIR" validate:"required"`
	MaxWorkers  int           `yaml:"MAX_WORKERS" envconfig:"MAX_WORKERS" validate:"min=1"`
	HTTPTimeout time.Duration `yaml:"HTTP_TIMEOUT" envconfig:"HTTP_TIMEOUT" validate:"min=1s"`
	RateLimit   float64       `yaml:"RATE_LIMIT" envconfig:"RATE_LIMIT" validate:"min=0"`
	MetricsAddr string        `yaml:"METRICS_ADDR" envconfig:"METRICS_ADDR"`
	Logging     LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the configuration defaults applied underneath the file
// and environment layers.
func Default() *Config {
	return &Config{
		MaxWorkers:  32,
		HTTPTimeout: 10 * time.Second,
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/harvester.log",
		},
	}
}

// Load reads the config file at path, applies environment overrides and
// validates the result. A missing or unreadable config file is fatal.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	// Environment takes precedence over the file.
	if err := envconfig.Process("WBOEMC", cfg); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the date-range ordering.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	start, end, err := c.Range()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("END_DATE %s is before START_DATE %s", c.EndDate, c.StartDate)
	}
	return nil
}

// Range returns the parsed [start, end] calendar days.
func (c *Config) Range() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid START_DATE %q: %w", c.StartDate, err)
	}
	end, err = time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid END_DATE %q: %w", c.EndDate, err)
	}
	return start, end, nil
}
