package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Environment string
	LogLevel    zerolog.Level
	Port        string

	// ProviderTimeout bounds every single adapter operation.
	ProviderTimeout time.Duration

	// RefreshInterval controls how often reports are rebuilt for each location.
	RefreshInterval time.Duration

	// ReportMaxAge is how long a cached report is served before it counts as missing.
	ReportMaxAge time.Duration

	// TideWindowDays is the tide prediction window requested per aggregation.
	TideWindowDays int

	MarineAPIURL   string
	ForecastAPIURL string
	NOAAAPIURL     string
	NWSAPIURL      string
	NWSUserAgent   string

	// Zone is the civil time zone provider timestamps are expressed in.
	Zone *time.Location

	GridCacheSize int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.Environment = getenvDefault("ENV", "production")
	level, err := zerolog.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	cfg.LogLevel = level
	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.ProviderTimeout, err = getenvDuration("PROVIDER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReportMaxAge, err = getenvDuration("REPORT_MAX_AGE", time.Hour); err != nil {
		return nil, err
	}

	cfg.TideWindowDays = getenvInt("TIDE_WINDOW_DAYS", 2)
	if cfg.TideWindowDays <= 0 {
		return nil, fmt.Errorf("invalid TIDE_WINDOW_DAYS: must be positive")
	}

	cfg.MarineAPIURL = getenvDefault("MARINE_API_URL", "https://marine-api.open-meteo.com/v1/marine")
	cfg.ForecastAPIURL = getenvDefault("FORECAST_API_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.NOAAAPIURL = getenvDefault("NOAA_API_URL", "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter")
	cfg.NWSAPIURL = getenvDefault("NWS_API_URL", "https://api.weather.gov")
	cfg.NWSUserAgent = getenvDefault("NWS_USER_AGENT", "surf-report (contact@example.com)")

	zoneName := getenvDefault("LOCAL_TIMEZONE", "America/New_York")
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCAL_TIMEZONE: %w", err)
	}
	cfg.Zone = zone

	cfg.GridCacheSize = getenvInt("GRID_CACHE_SIZE", 64)

	return cfg, nil
}

// InitializeLogging sets up the global zerolog logger.
func (c *AppConfig) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
