package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/location"
	"github.com/i474232898/weather-lookup/internal/observability"
	"github.com/i474232898/weather-lookup/internal/providers"
	"github.com/i474232898/weather-lookup/internal/queries"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/video"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const serviceName = "weather-lookup"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	observability.InitLogger(serviceName, cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}

	gateway := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL, cfg.OpenMeteoArchiveURL, cfg.ForecastDays)
	logger.Info().Str("provider", gateway.Name()).Int("forecast_days", cfg.ForecastDays).Msg("weather gateway ready")

	// Missing credentials are reported per request rather than at startup.
	var resolver location.Resolver
	if geo, err := providers.NewGeoapifyProvider(httpClient, cfg.GeoapifyAPIKey, cfg.GeoapifyBaseURL); err != nil {
		logger.Warn().Err(err).Msg("geocoding disabled")
		resolver = location.Unavailable(err)
	} else {
		logger.Info().Str("provider", geo.Name()).Msg("geocoder ready")
		resolver = geo
	}

	var videos video.Finder
	if yt, err := providers.NewYouTubeProvider(httpClient, cfg.YouTubeAPIKey, cfg.YouTubeBaseURL); err != nil {
		logger.Warn().Err(err).Msg("video search disabled")
		videos = video.Unavailable(err)
	} else {
		logger.Info().Str("provider", yt.Name()).Msg("video search ready")
		videos = yt
	}

	queryStore, closeStore, err := store.Open(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open query store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error().Err(err).Msg("failed to close query store")
		}
	}()

	app := httpapi.NewApp(httpapi.Dependencies{
		Weather:      weather.NewService(gateway),
		Resolver:     resolver,
		Videos:       videos,
		Queries:      queries.NewService(queryStore),
		GeocodeLimit: cfg.GeocodeLimit,
	})

	// Start server with graceful shutdown
	go func() {
		logger.Info().Str("port", cfg.Port).Str("db_driver", cfg.Database.Driver).Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error().Err(err).Msg("fiber server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server stopped")
}
