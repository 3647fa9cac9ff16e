package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-lookup/internal/common"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string

	GeoapifyAPIKey string
	YouTubeAPIKey  string

	// Upstream endpoints; empty means the provider default.
	GeoapifyBaseURL     string
	OpenMeteoBaseURL    string
	OpenMeteoArchiveURL string
	YouTubeBaseURL      string

	// UpstreamTimeout bounds each outbound call (0 = transport default).
	UpstreamTimeout time.Duration

	// ForecastDays is the length of the daily forecast series (5-7).
	ForecastDays int

	// GeocodeLimit caps the number of geocoding candidates requested.
	GeocodeLimit int

	Database DatabaseConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Err(err).Msg("no .env file found or error loading it")
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Env = getenvDefault("APP_ENV", "production")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	cfg.GeoapifyAPIKey = os.Getenv("GEOAPIFY_API_KEY")
	cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")

	cfg.GeoapifyBaseURL = os.Getenv("GEOAPIFY_BASE_URL")
	cfg.OpenMeteoBaseURL = os.Getenv("OPEN_METEO_BASE_URL")
	cfg.OpenMeteoArchiveURL = os.Getenv("OPEN_METEO_ARCHIVE_URL")
	cfg.YouTubeBaseURL = os.Getenv("YOUTUBE_BASE_URL")

	timeout, err := time.ParseDuration(getenvDefault("UPSTREAM_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: must not be negative")
	}
	cfg.UpstreamTimeout = timeout

	cfg.ForecastDays = clamp(getenvInt("FORECAST_DAYS", 7), 5, 7)
	cfg.GeocodeLimit = getenvInt("GEOCODE_LIMIT", 5)
	if cfg.GeocodeLimit <= 0 {
		cfg.GeocodeLimit = 5
	}

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}
	cfg.Database = db

	return cfg, nil
}

func loadDatabase() (DatabaseConfig, error) {
	dsn := getenvDefault("DATABASE_URL", "weather.db")
	driver := strings.ToLower(os.Getenv("DB_DRIVER"))

	if driver == "" {
		// Both URL and keyword/value forms of a lib/pq DSN select postgres.
		if common.HasAnyPrefix(dsn, "postgres://", "postgresql://") ||
			common.HasAny(dsn, "host=", "dbname=") {
			driver = DriverPostgres
		} else {
			driver = DriverSQLite
		}
	}

	switch driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER %q: use sqlite, postgres or memory", driver)
	}

	return DatabaseConfig{Driver: driver, DSN: dsn}, nil
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

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
