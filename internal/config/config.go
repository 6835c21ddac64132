// Package config defines the global configuration structure for the walkwatch
// service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Any missing required value or invalid format aborts startup immediately
// (fail fast).
package config

import (
	"time"

	"walkwatch/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type used
// throughout configuration to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the walkwatch service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"walkwatch"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Webhook  WebhookConfig
	Reminder ReminderConfig
	Weather  WeatherConfig
	SMS      SMSConfig
	Habits   HabitsConfig
	Database DatabaseConfig
	AWS      AWSConfig

	// Build Metadata (injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// WebhookConfig holds the inbound webhook authentication and abuse guards.
type WebhookConfig struct {
	// Secret is the bearer token the external scheduler must present on POST /check.
	Secret SecretString `envconfig:"WEBHOOK_SECRET" validate:"required,min=16"`
	// MaxBodyBytes caps the request body size; larger bodies are rejected with 413.
	MaxBodyBytes int64 `envconfig:"WEBHOOK_MAX_BODY_BYTES" default:"1024"`
	// ThrottleWindow is the minimum interval between accepted calls from the
	// same caller identity.
	ThrottleWindow time.Duration `envconfig:"WEBHOOK_THROTTLE_WINDOW" default:"1h"`
}

// ReminderConfig holds the walk-reminder decision parameters.
type ReminderConfig struct {
	// Timezone is the civil timezone for the reminder window and the daily
	// rate-limit calendar. Loading it must succeed at startup.
	Timezone string `envconfig:"REMINDER_TIMEZONE" default:"America/New_York"`
	// WindowStartHour..WindowEndHour is the closed hour range during which a
	// reminder may be sent.
	WindowStartHour int `envconfig:"REMINDER_WINDOW_START" default:"14" validate:"min=0,max=23"`
	WindowEndHour   int `envconfig:"REMINDER_WINDOW_END" default:"18" validate:"min=0,max=23"`
	// DogNames appear in every outbound message and in the /check response.
	DogNames []string `envconfig:"DOG_NAMES" default:"Boris,Fiona"`
}

// WeatherConfig holds the weather provider credentials and walk location.
type WeatherConfig struct {
	APIKey SecretString `envconfig:"OPENWEATHER_API_KEY" validate:"required"`
	// Default walk location: South Bend, IN.
	Latitude  float64       `envconfig:"WALK_LATITUDE" default:"41.6764"`
	Longitude float64       `envconfig:"WALK_LONGITUDE" default:"-86.2520"`
	BaseURL   string        `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org"`
	Timeout   time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s"`
}

// SMSConfig holds the Twilio gateway credentials and phone numbers.
type SMSConfig struct {
	AccountSID string        `envconfig:"TWILIO_ACCOUNT_SID" validate:"required"`
	AuthToken  SecretString  `envconfig:"TWILIO_AUTH_TOKEN" validate:"required"`
	FromNumber string        `envconfig:"TWILIO_FROM_NUMBER" validate:"required"`
	ToNumber   string        `envconfig:"TWILIO_TO_NUMBER" validate:"required"`
	BaseURL    string        `envconfig:"TWILIO_BASE_URL" default:"https://api.twilio.com"`
	Timeout    time.Duration `envconfig:"SMS_TIMEOUT" default:"10s"`
}

// HabitsConfig holds the habit-tracker credentials and the tracked goal.
type HabitsConfig struct {
	APIKey   SecretString  `envconfig:"BEEMINDER_API_KEY" validate:"required"`
	Username string        `envconfig:"BEEMINDER_USERNAME" validate:"required"`
	GoalSlug string        `envconfig:"BEEMINDER_GOAL" default:"dogwalk"`
	BaseURL  string        `envconfig:"BEEMINDER_BASE_URL" default:"https://www.beeminder.com"`
	Timeout  time.Duration `envconfig:"HABITS_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds the key-value store connection and pool tuning parameters.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required"`

	// Tuning Parameters
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout  time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
}

// AWSConfig holds AWS regional configuration for the metrics publisher.
type AWSConfig struct {
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"WalkWatch"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrTimezone indicates the configured reminder timezone could not be loaded.
	ErrTimezone ConfigErrorType = "TIMEZONE_UNAVAILABLE"
)
