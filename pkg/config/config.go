package config

import (
	"github.com/sdejongh/phodime/pkg/models"
	"github.com/sdejongh/phodime/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Merge   MergeConfig   `yaml:"merge"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Exclude []string      `yaml:"exclude"`
}

// MergeConfig holds merge behaviour defaults
type MergeConfig struct {
	Force     bool `yaml:"force"`
	CheckExif bool `yaml:"check_exif"`
	Verify    bool `yaml:"verify"` // compare copies by SHA-256, not only by size
	// BandwidthLimit caps copy throughput, e.g. "10M"; empty means unlimited
	BandwidthLimit string `yaml:"bandwidth_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // progress bar when stdout is a terminal
	Color    string `yaml:"color"`    // "auto", "always" or "never"
	Quiet    bool   `yaml:"quiet"`
	Verbose  bool   `yaml:"verbose"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`
	MaxSize    int64  `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Merge: MergeConfig{
			Force:     false,
			CheckExif: false,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Color:    "auto",
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Format:     "text",
			Level:      "info",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 5,
		},
		Exclude: []string{
			".DS_Store",
			"Thumbs.db",
			"desktop.ini",
			"*.tmp",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always' or 'never'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if _, err := ratelimit.ParseRate(c.Merge.BandwidthLimit); err != nil {
		return &models.ValidationError{
			Field:   "merge.bandwidth_limit",
			Message: "must be a byte rate such as 512K, 10M or 1G",
		}
	}

	if c.Logging.MaxSize < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "must not be negative",
		}
	}

	return nil
}
