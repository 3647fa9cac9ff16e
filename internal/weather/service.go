package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-lookup/internal/common"
)

// Service validates weather queries and coordinates calls to the gateway.
type Service struct {
	gateway Gateway
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(gateway Gateway) *Service {
	return &Service{
		gateway: gateway,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to judge "today". Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Current returns the current-weather report for c.
func (s *Service) Current(ctx context.Context, c Coordinates) (*Report, error) {
	if err := ValidateCoordinates(c); err != nil {
		return nil, err
	}
	return s.gateway.Current(ctx, c)
}

// Forecast returns the daily forecast report for c.
func (s *Service) Forecast(ctx context.Context, c Coordinates) (*Report, error) {
	if err := ValidateCoordinates(c); err != nil {
		return nil, err
	}
	return s.gateway.Forecast(ctx, c)
}

// CurrentAndForecast fetches both views concurrently. The first failure
// cancels the other call and fails the whole operation; there is no partial
// result.
func (s *Service) CurrentAndForecast(ctx context.Context, c Coordinates) (*Outlook, error) {
	if err := ValidateCoordinates(c); err != nil {
		return nil, err
	}

	var current, forecast *Report

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.gateway.Current(gctx, c)
		if err != nil {
			return fmt.Errorf("current weather: %w", err)
		}
		current = r
		return nil
	})
	g.Go(func() error {
		r, err := s.gateway.Forecast(gctx, c)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
		forecast = r
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if current == nil || current.CurrentWeather == nil || forecast == nil || forecast.Daily == nil {
		return nil, common.NewUpstreamError("incomplete weather response", nil)
	}

	log.Debug().
		Float64("lat", c.Latitude).
		Float64("lon", c.Longitude).
		Int("forecast_days", forecast.Daily.Len()).
		Msg("combined current and forecast")

	return &Outlook{
		Current:  *current.CurrentWeather,
		Forecast: *forecast.Daily,
		Timezone: forecast.Timezone,
	}, nil
}

// HistoricalQuery is a raw historical request as received from a client.
type HistoricalQuery struct {
	Coordinates
	StartDate string
	EndDate   string
}

// HistoricalResult is a historical report with its validated range and summary.
type HistoricalResult struct {
	Report  *Report
	Range   DateRange
	Summary DailySummary
}

// Historical validates q and fetches the archived daily series.
func (s *Service) Historical(ctx context.Context, q HistoricalQuery) (*HistoricalResult, error) {
	if err := ValidateCoordinates(q.Coordinates); err != nil {
		return nil, err
	}
	r, err := ParseDateRange(q.StartDate, q.EndDate, s.now())
	if err != nil {
		return nil, err
	}

	report, err := s.gateway.Historical(ctx, q.Coordinates, r)
	if err != nil {
		return nil, err
	}

	res := &HistoricalResult{Report: report, Range: r}
	if report.Daily != nil {
		res.Summary = Summarize(*report.Daily)
	} else {
		res.Summary = Summarize(DailyWeather{})
	}
	return res, nil
}
