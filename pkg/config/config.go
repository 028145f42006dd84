// Package config loads the harvester configuration from the environment.
// With nothing set, every value equals the built-in defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/Sternrassler/awesome-lists/pkg/client"
	"github.com/Sternrassler/awesome-lists/pkg/harvest"
	"github.com/Sternrassler/awesome-lists/pkg/logging"
	"github.com/joho/godotenv"
)

// Environment variables recognized by Load.
const (
	EnvMaxPages    = "AWESOME_MAX_PAGES"
	EnvTopic       = "AWESOME_TOPIC"
	EnvUserAgent   = "AWESOME_USER_AGENT"
	EnvBaseURL     = "AWESOME_BASE_URL"
	EnvOutput      = "AWESOME_OUTPUT"
	EnvRedisURL    = "REDIS_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogPretty   = "LOG_PRETTY"
	EnvMetricsFile = "METRICS_FILE"
)

// Built-in defaults.
const (
	DefaultUserAgent  = "Awesome-Lists-App"
	DefaultOutputPath = "awesome_lists.md"
)

// Config holds the run configuration.
type Config struct {
	// Harvest
	MaxPages  int
	Topic     string
	UserAgent string
	BaseURL   string

	// Output
	OutputPath string

	// RedisURL enables the page cache when set (redis://host:port/db)
	RedisURL string

	// Logging
	LogLevel  logging.LogLevel
	LogPretty bool

	// MetricsFile receives a Prometheus textfile export when set
	MetricsFile string
}

// Default returns the built-in configuration.
func Default() Config {
	h := harvest.DefaultConfig()
	return Config{
		MaxPages:   h.MaxPages,
		Topic:      h.Topic,
		UserAgent:  DefaultUserAgent,
		BaseURL:    client.DefaultBaseURL,
		OutputPath: DefaultOutputPath,
		LogLevel:   logging.LevelInfo,
	}
}

// Load reads .env (when present) and the environment on top of Default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv(EnvMaxPages); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvMaxPages, err)
		}
		cfg.MaxPages = n
	}
	if v := os.Getenv(EnvLogPretty); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvLogPretty, err)
		}
		cfg.LogPretty = b
	}

	cfg.Topic = getEnv(EnvTopic, cfg.Topic)
	cfg.UserAgent = getEnv(EnvUserAgent, cfg.UserAgent)
	cfg.BaseURL = getEnv(EnvBaseURL, cfg.BaseURL)
	cfg.OutputPath = getEnv(EnvOutput, cfg.OutputPath)
	cfg.RedisURL = getEnv(EnvRedisURL, cfg.RedisURL)
	cfg.LogLevel = logging.LogLevel(getEnv(EnvLogLevel, string(cfg.LogLevel)))
	cfg.MetricsFile = getEnv(EnvMetricsFile, cfg.MetricsFile)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be >= 1 (got %d)", c.MaxPages)
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user-agent is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url must be absolute (got %q)", c.BaseURL)
	}
	return nil
}

// Harvest returns the harvester configuration.
func (c Config) Harvest() harvest.Config {
	return harvest.Config{
		MaxPages: c.MaxPages,
		Topic:    c.Topic,
	}
}

// Client returns the search client configuration, without a cache.
func (c Config) Client() client.Config {
	cfg := client.DefaultConfig(c.UserAgent)
	cfg.BaseURL = c.BaseURL
	return cfg
}

// Logging returns the logger configuration writing to stderr.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Pretty = c.LogPretty
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
