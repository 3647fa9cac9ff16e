package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	defaultOpenMeteoURL        = "https://api.open-meteo.com/v1/forecast"
	defaultOpenMeteoArchiveURL = "https://archive-api.open-meteo.com/v1/archive"
)

var (
	forecastDaily = []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"weathercode",
		"precipitation_sum",
		"windspeed_10m_max",
	}
	historicalDaily = []string{
		"temperature_2m_max",
		"temperature_2m_min",
		"temperature_2m_mean",
		"precipitation_sum",
		"rain_sum",
		"snowfall_sum",
		"windspeed_10m_max",
		"windgusts_10m_max",
		"weathercode",
	}
)

// OpenMeteoProvider implements weather.Gateway for Open-Meteo. No credential
// is required.
type OpenMeteoProvider struct {
	name         string
	forecastURL  string
	archiveURL   string
	forecastDays int
	client       *http.Client
	circuit      *gobreaker.CircuitBreaker
}

var _ weather.Gateway = (*OpenMeteoProvider)(nil)

// NewOpenMeteoProvider creates the provider. Empty URLs select the public
// endpoints; forecastDays outside 1-16 falls back to 7.
func NewOpenMeteoProvider(client *http.Client, forecastURL, archiveURL string, forecastDays int) *OpenMeteoProvider {
	if forecastURL == "" {
		forecastURL = defaultOpenMeteoURL
	}
	if archiveURL == "" {
		archiveURL = defaultOpenMeteoArchiveURL
	}
	if forecastDays < 1 || forecastDays > 16 {
		forecastDays = 7
	}

	return &OpenMeteoProvider{
		name:         "openmeteo",
		forecastURL:  forecastURL,
		archiveURL:   archiveURL,
		forecastDays: forecastDays,
		client:       client,
		circuit:      newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Current(ctx context.Context, c weather.Coordinates) (*weather.Report, error) {
	values := coordinateValues(c)
	values.Set("current_weather", "true")

	var report weather.Report
	if err := getJSON(ctx, p.client, p.circuit, p.name, p.forecastURL, values, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (p *OpenMeteoProvider) Forecast(ctx context.Context, c weather.Coordinates) (*weather.Report, error) {
	values := coordinateValues(c)
	values.Set("daily", strings.Join(forecastDaily, ","))
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(p.forecastDays))

	return p.fetchDaily(ctx, p.forecastURL, values)
}

func (p *OpenMeteoProvider) Historical(ctx context.Context, c weather.Coordinates, r weather.DateRange) (*weather.Report, error) {
	values := coordinateValues(c)
	values.Set("start_date", r.StartString())
	values.Set("end_date", r.EndString())
	values.Set("daily", strings.Join(historicalDaily, ","))
	values.Set("timezone", "auto")

	return p.fetchDaily(ctx, p.archiveURL, values)
}

func (p *OpenMeteoProvider) fetchDaily(ctx context.Context, endpoint string, values url.Values) (*weather.Report, error) {
	var report weather.Report
	if err := getJSON(ctx, p.client, p.circuit, p.name, endpoint, values, &report); err != nil {
		return nil, err
	}
	if report.Daily != nil && !report.Daily.Consistent() {
		return nil, common.NewUpstreamError(p.name+" returned a daily series with mismatched lengths", nil)
	}
	return &report, nil
}

func coordinateValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	return values
}
