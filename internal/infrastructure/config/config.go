package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Tomo      TomoConfig
	Fitting   FittingConfig
	Limits    LimitsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// TomoConfig holds tomography backend configuration. The tomo service is
// only registered when a backend is enabled and reachable.
type TomoConfig struct {
	Enabled     bool   `envconfig:"TOMO_ENABLED" default:"false"`
	BackendAddr string `envconfig:"TOMO_BACKEND_ADDR" default:"localhost:50055"`
}

// FittingConfig tunes the curve-fitting engine. Zero values fall back to
// the engine's own defaults.
type FittingConfig struct {
	MaxIterations int     `envconfig:"FIT_MAX_ITERATIONS" default:"2000"`
	Tolerance     float64 `envconfig:"FIT_TOLERANCE" default:"1e-10"`
}

// LimitsConfig bounds request payloads.
type LimitsConfig struct {
	MaxArrayElements    int `envconfig:"MAX_ARRAY_ELEMENTS" default:"4194304"`
	MaxExpressionLength int `envconfig:"MAX_EXPRESSION_LENGTH" default:"1024"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Tomo: TomoConfig{
			Enabled:     false,
			BackendAddr: "localhost:50055",
		},
		Fitting: FittingConfig{
			MaxIterations: 2000,
			Tolerance:     1e-10,
		},
		Limits: LimitsConfig{
			MaxArrayElements:    4_194_304,
			MaxExpressionLength: 1024,
		},
	}
}
