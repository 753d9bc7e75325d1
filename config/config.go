package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Scraper ScraperConfig
	Output  OutputConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// ScraperConfig controls upstream fetching and the retry driver.
type ScraperConfig struct {
	// URL is the upstream page carrying the ETF flow table.
	URL string // default: "https://farside.co.uk/bitcoin-etf-flow-all-data"

	// Timeout is the deadline for a single fetch attempt.
	Timeout time.Duration // default: 10s

	// Proxy is an optional proxy URL for all upstream requests.
	Proxy string

	// Attempts is the retry bound in service mode. The batch path
	// always performs a single attempt regardless of this value.
	Attempts int // default: 3

	// BackoffMin and BackoffMax bound the uniformly random sleep
	// between failed attempts.
	BackoffMin time.Duration // default: 5s
	BackoffMax time.Duration // default: 10s
}

// OutputConfig controls where scraped artifacts are written.
type OutputConfig struct {
	// Dir is the directory for the JSON and CSV artifacts.
	// It is created on first write if absent.
	Dir string // default: "output"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// PORT is read unprefixed so the default Cloud Run contract works.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("ETFFLOW_HOST", "0.0.0.0"),
			Port: envIntOr("PORT", 8080),
			Mode: envOr("ETFFLOW_MODE", "release"),
		},
		Scraper: ScraperConfig{
			URL:        envOr("ETFFLOW_URL", "https://farside.co.uk/bitcoin-etf-flow-all-data"),
			Timeout:    envDurationOr("ETFFLOW_TIMEOUT", 10*time.Second),
			Proxy:      os.Getenv("ETFFLOW_PROXY"),
			Attempts:   envIntOr("ETFFLOW_RETRY_ATTEMPTS", 3),
			BackoffMin: envDurationOr("ETFFLOW_BACKOFF_MIN", 5*time.Second),
			BackoffMax: envDurationOr("ETFFLOW_BACKOFF_MAX", 10*time.Second),
		},
		Output: OutputConfig{
			Dir: envOr("ETFFLOW_OUTPUT_DIR", "output"),
		},
		Log: LogConfig{
			Level:  envOr("ETFFLOW_LOG_LEVEL", "info"),
			Format: envOr("ETFFLOW_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
