// Package config loads the folder client configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/naver-folder-client/pkg/folders"
	"github.com/Sternrassler/naver-folder-client/pkg/metrics"
	"github.com/Sternrassler/naver-folder-client/pkg/sink"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	SharesURL    string
	BookmarksURL string
	PageSize     int

	UserAgent         string
	Timeout           time.Duration
	MaxAttempts       int
	RequestsPerSecond float64

	LogLevel  string
	LogPretty bool

	// RedisURL enables publishing when set.
	RedisURL string
	RedisKey string

	// PushgatewayURL enables the metrics push when set.
	PushgatewayURL string
	MetricsJob     string
}

// Load reads the configuration. Values already present in the environment
// win over the .env file.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		SharesURL:      getEnv("FOLDER_SHARES_URL", folders.DefaultSharesURL),
		BookmarksURL:   getEnv("FOLDER_BOOKMARKS_URL", folders.DefaultBookmarksURL),
		UserAgent:      getEnv("USER_AGENT", "naver-folder-client/0.1.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisKey:       getEnv("REDIS_KEY", sink.DefaultKey),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		MetricsJob:     getEnv("METRICS_JOB", metrics.DefaultJob),
	}

	var err error
	if cfg.PageSize, err = getEnvInt("FOLDER_PAGE_SIZE", folders.DefaultPageSize); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = getEnvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts, err = getEnvInt("MAX_ATTEMPTS", 1); err != nil {
		return nil, err
	}
	if cfg.RequestsPerSecond, err = getEnvFloat("REQUESTS_PER_SECOND", 0); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.SharesURL == "" {
		return fmt.Errorf("FOLDER_SHARES_URL must not be empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("FOLDER_PAGE_SIZE must be > 0 (got %d)", c.PageSize)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be >= 0 (got %s)", c.Timeout)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("MAX_ATTEMPTS must be >= 1 (got %d)", c.MaxAttempts)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("REQUESTS_PER_SECOND must be >= 0 (got %v)", c.RequestsPerSecond)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, value, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s=%q: %w", key, value, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, value, err)
	}
	return d, nil
}
