package config

import (
	"fmt"
	"strings"
)

// Config represents the complete configuration for the ocrprep
// application. It is loaded from configuration files, environment
// variables and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Image storage
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" json:"storage"`

	// Remote planning backend
	Planner PlannerConfig `mapstructure:"planner" yaml:"planner" json:"planner"`

	// OCR engine
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
}

// StorageConfig contains image storage settings.
type StorageConfig struct {
	Root string `mapstructure:"root" yaml:"root" json:"root"`
}

// PlannerConfig contains remote planning backend settings.
type PlannerConfig struct {
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	Model          string `mapstructure:"model" yaml:"model" json:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
}

// OCRConfig contains OCR engine settings.
type OCRConfig struct {
	Language string `mapstructure:"language" yaml:"language" json:"language"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("storage root must not be empty")
	}
	if c.Planner.TimeoutSeconds < 0 {
		return fmt.Errorf("planner timeout must not be negative")
	}
	return nil
}
