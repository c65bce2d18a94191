// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults applied when neither the config file nor the environment
// provides a value.
const (
	DefaultPort               = 8080
	DefaultProcessingDelayMS  = 3000
	DefaultRateLimitPerMinute = 60
)

// Config represents server configuration. Values may come from a JSON file,
// the environment, or both; the environment wins.
type Config struct {
	// Server
	Port          int    `json:"port,omitempty"`           // HTTP listen port
	AllowedOrigin string `json:"allowed_origin,omitempty"` // CORS allow origin; empty means any

	// Backing services
	DatabaseURL     string `json:"database_url,omitempty"`      // PostgreSQL connection URL; empty selects the in-memory store
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`    // Gemini API key
	StripeSecretKey string `json:"stripe_secret_key,omitempty"` // Stripe secret key
	ChromePath      string `json:"chrome_path,omitempty"`       // Chrome binary for PDF rendering; empty uses default lookup

	// Behavior
	ProcessingDelayMS  int `json:"processing_delay_ms,omitempty"`   // Wizard processing step duration
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty"` // Per-client request budget
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables
// leave zero values for MergeWithDefaults to fill.
func FromEnv() *Config {
	cfg := &Config{
		AllowedOrigin:   os.Getenv("ALLOWED_ORIGIN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		ChromePath:      os.Getenv("CHROME_PATH"),
	}
	cfg.Port = envInt("PORT")
	cfg.ProcessingDelayMS = envInt("PROCESSING_DELAY_MS")
	cfg.RateLimitPerMinute = envInt("RATE_LIMIT_PER_MINUTE")
	return cfg
}

func envInt(key string) int {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ProcessingDelayMS < 0 {
		return fmt.Errorf("config error: 'processing_delay_ms' must be non-negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_minute' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults, then from the package-level fallbacks.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.AllowedOrigin == "" {
		result.AllowedOrigin = defaults.AllowedOrigin
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.StripeSecretKey == "" {
		result.StripeSecretKey = defaults.StripeSecretKey
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.ProcessingDelayMS == 0 {
		result.ProcessingDelayMS = defaults.ProcessingDelayMS
	}
	if result.ProcessingDelayMS == 0 {
		result.ProcessingDelayMS = DefaultProcessingDelayMS
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = DefaultRateLimitPerMinute
	}

	return result
}

// ProcessingDelay returns the wizard processing step duration.
func (c *Config) ProcessingDelay() time.Duration {
	if c.ProcessingDelayMS <= 0 {
		return DefaultProcessingDelayMS * time.Millisecond
	}
	return time.Duration(c.ProcessingDelayMS) * time.Millisecond
}
