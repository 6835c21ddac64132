// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC process timezone to prevent drift bugs.
//  2. Load .env file via godotenv (non-fatal if absent).
//  3. Use envconfig to process struct tags and populate the Config struct.
//  4. Populate BuildInfo from linker-injected variables.
//  5. Validate the struct using go-playground/validator.
//  6. Verify the reminder timezone database entry is loadable.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Build metadata injected at link time via
// -ldflags "-X walkwatch/internal/config.version=...".
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// ConfigError is a diagnostic error type returned by LoadConfig to aid debugging.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig loads and validates the walkwatch configuration.
//
// Timezone availability is a deployment precondition, not a runtime branch:
// if the configured reminder timezone cannot be loaded, LoadConfig fails and
// the process must not start.
func LoadConfig() (*Config, error) {
	// Enforce UTC process timezone; civil-time conversions go through the
	// reminder window's explicit *time.Location instead.
	time.Local = time.UTC

	// Load .env file (non-fatal if absent). godotenv does NOT override
	// variables already present in the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	if _, err := time.LoadLocation(cfg.Reminder.Timezone); err != nil {
		return nil, &ConfigError{
			Type:    ErrTimezone,
			Message: fmt.Sprintf("reminder timezone %q is not available", cfg.Reminder.Timezone),
			Err:     err,
		}
	}

	return &cfg, nil
}
