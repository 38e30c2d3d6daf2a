// Package config loads settings from environment variables with the
// TALENTSYNC_ prefix and provides defaults for every option.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all settings for the sync pipeline.
type Config struct {
	Backend   BackendConfig
	Browser   BrowserConfig
	Cache     CacheConfig
	Refresh   RefreshConfig
	Telemetry TelemetryConfig
	LogLevel  string // debug, info, warn, error (default: info)
}

// BackendConfig configures the recruiting backend client.
type BackendConfig struct {
	BaseURL           string // Recruiting board origin, e.g. https://board.example.com
	UseBrowserCookies bool   // Read session cookies from the local browser (default: true)
}

// BrowserConfig configures the headless browser used for live page snapshots.
type BrowserConfig struct {
	Headless   bool          // Run the browser headless (default: true)
	NavTimeout time.Duration // Per-navigation deadline (default: 30s)
}

// CacheConfig configures the on-disk response cache and the no-access flag.
type CacheConfig struct {
	DataPath string        // Cache directory; empty uses the user cache dir
	TTL      time.Duration // Response cache TTL (default: 1h)
}

// RefreshConfig configures the outdated-profile refresh loop.
type RefreshConfig struct {
	Enabled  bool          // Run the refresh loop (default: true)
	Interval time.Duration // Delay between passes (default: 30m)
}

// TelemetryConfig configures error reporting.
type TelemetryConfig struct {
	Version string // Build version stamped into report sources
}

// ErrBackendURLRequired is returned by Validate when no backend origin is
// configured.
var ErrBackendURLRequired = errors.New("config: TALENTSYNC_BACKEND_URL is required")

// Load builds a Config from environment variables and defaults.
func Load() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:           getEnv("TALENTSYNC_BACKEND_URL", ""),
			UseBrowserCookies: getEnvBool("TALENTSYNC_BROWSER_COOKIES", true),
		},
		Browser: BrowserConfig{
			Headless:   getEnvBool("TALENTSYNC_HEADLESS", true),
			NavTimeout: getEnvDuration("TALENTSYNC_NAV_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			DataPath: getEnv("TALENTSYNC_DATA_PATH", ""),
			TTL:      getEnvDuration("TALENTSYNC_CACHE_TTL", time.Hour),
		},
		Refresh: RefreshConfig{
			Enabled:  getEnvBool("TALENTSYNC_REFRESH_ENABLED", true),
			Interval: getEnvDuration("TALENTSYNC_REFRESH_INTERVAL", 30*time.Minute),
		},
		Telemetry: TelemetryConfig{
			Version: getEnv("TALENTSYNC_VERSION", ""),
		},
		LogLevel: getEnv("TALENTSYNC_LOG_LEVEL", "info"),
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return ErrBackendURLRequired
	}
	return nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a
// default value. Unparseable values fall back to the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
