package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups the settings for runtime visibility.
// For a CLI that is only logging: the menu owns stdout, logs go to stderr.
type ObservabilityConfig struct {
	// ServiceName tags every log line. Forced to "perftracker" by Load.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment mirrors Primary.Env ("local", "production", ...).
	Environment string `koanf:"environment" validate:"required"`

	Logging LoggingConfig `koanf:"logging" validate:"required"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level" validate:"required"`

	// Format is "console" (human readable) or "json".
	Format string `koanf:"format" validate:"required,oneof=console json"`

	// SlowQueryThreshold marks statements that deserve a warning.
	// Zero disables the check. Supply duration strings like "100ms".
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// DefaultObservabilityConfig provides defaults suited to an interactive
// session: console output and warn level, so lifecycle logs stay out of
// the way of the menu.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "perftracker",
		Environment: "local",
		Logging: LoggingConfig{
			Level:              "warn",
			Format:             "console",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
	}
}

// Validate applies rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level. An empty level defaults
// to "info" in production and "debug" in development.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development":
		if c.Logging.Level == "" {
			return "debug"
		}
	}
	return c.Logging.Level
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
