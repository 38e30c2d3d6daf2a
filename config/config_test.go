package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/talentsync/talentsync/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"TALENTSYNC_BACKEND_URL",
		"TALENTSYNC_BROWSER_COOKIES",
		"TALENTSYNC_NAV_TIMEOUT",
		"TALENTSYNC_CACHE_TTL",
		"TALENTSYNC_LOG_LEVEL",
	} {
		_ = os.Unsetenv(key)
	}

	cfg := config.Load()

	assert.True(t, cfg.Backend.UseBrowserCookies)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavTimeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Refresh.Interval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TALENTSYNC_BACKEND_URL", "https://board.example.com")
	t.Setenv("TALENTSYNC_HEADLESS", "false")
	t.Setenv("TALENTSYNC_NAV_TIMEOUT", "45s")
	t.Setenv("TALENTSYNC_LOG_LEVEL", "debug")

	cfg := config.Load()

	assert.Equal(t, "https://board.example.com", cfg.Backend.BaseURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Browser.NavTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("TALENTSYNC_HEADLESS", "sideways")
	t.Setenv("TALENTSYNC_CACHE_TTL", "soon")

	cfg := config.Load()

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestValidateRequiresBackendURL(t *testing.T) {
	_ = os.Unsetenv("TALENTSYNC_BACKEND_URL")

	cfg := config.Load()
	assert.ErrorIs(t, cfg.Validate(), config.ErrBackendURLRequired)

	cfg.Backend.BaseURL = "https://board.example.com"
	assert.NoError(t, cfg.Validate())
}
