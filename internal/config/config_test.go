package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "PORT", "PROVIDER_TIMEOUT", "REFRESH_INTERVAL",
		"REPORT_MAX_AGE", "TIDE_WINDOW_DAYS", "LOCAL_TIMEZONE", "GRID_CACHE_SIZE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, time.Hour, cfg.ReportMaxAge)
	assert.Equal(t, 2, cfg.TideWindowDays)
	assert.Equal(t, "America/New_York", cfg.Zone.String())
	assert.Equal(t, 64, cfg.GridCacheSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("TIDE_WINDOW_DAYS", "4")
	t.Setenv("LOCAL_TIMEZONE", "UTC")
	t.Setenv("NWS_USER_AGENT", "surf-test (ops@example.com)")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 4, cfg.TideWindowDays)
	assert.Equal(t, time.UTC, cfg.Zone)
	assert.Equal(t, "surf-test (ops@example.com)", cfg.NWSUserAgent)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PROVIDER_TIMEOUT", "soon"},
		{"PROVIDER_TIMEOUT", "-1s"},
		{"REFRESH_INTERVAL", "0s"},
		{"REPORT_MAX_AGE", "ten minutes"},
		{"TIDE_WINDOW_DAYS", "0"},
		{"LOCAL_TIMEZONE", "Atlantis/Lost_City"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadUnknownLogLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}
