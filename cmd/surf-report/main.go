package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/surf-report/internal/api/http"
	"github.com/i474232898/surf-report/internal/config"
	"github.com/i474232898/surf-report/internal/observability"
	"github.com/i474232898/surf-report/internal/scheduler"
	"github.com/i474232898/surf-report/internal/spots"
	"github.com/i474232898/surf-report/internal/store"
	"github.com/i474232898/surf-report/internal/surf"
	"github.com/i474232898/surf-report/internal/surf/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.InitializeLogging()

	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound provider calls; each adapter call also
	// carries its own context deadline.
	httpClient := &http.Client{
		Timeout: cfg.ProviderTimeout,
	}

	marine := providers.NewOpenMeteoProvider(httpClient, providers.OpenMeteoConfig{
		MarineURL:   cfg.MarineAPIURL,
		ForecastURL: cfg.ForecastAPIURL,
		Zone:        cfg.Zone,
		Timeout:     cfg.ProviderTimeout,
		Metrics:     metrics,
	})

	tides, err := providers.NewNOAAProvider(httpClient, providers.NOAAConfig{
		TidesURL:      cfg.NOAAAPIURL,
		NWSURL:        cfg.NWSAPIURL,
		UserAgent:     cfg.NWSUserAgent,
		Stations:      spots.Stations(),
		Zone:          cfg.Zone,
		Timeout:       cfg.ProviderTimeout,
		GridCacheSize: cfg.GridCacheSize,
		Metrics:       metrics,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create NOAA provider")
	}

	memStore := store.NewMemoryStore(cfg.ReportMaxAge)

	service := surf.NewService(memStore, marine, tides,
		surf.WithMetrics(metrics),
		surf.WithTideWindow(cfg.TideWindowDays),
	)

	locations := spots.All()

	// Periodic refresh is owned here, outside the engine.
	sched := scheduler.New(locations, cfg.RefreshInterval, 2*cfg.ProviderTimeout, service)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "surf-report",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "surf-report",
			"cached":  len(memStore.Locations()),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, locations, spots.ByID)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
