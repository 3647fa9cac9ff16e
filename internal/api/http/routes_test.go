package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/location"
	"github.com/i474232898/weather-lookup/internal/queries"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/video"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Current(ctx context.Context, c weather.Coordinates) (*weather.Report, error) {
	args := m.Called(ctx, c)
	r, _ := args.Get(0).(*weather.Report)
	return r, args.Error(1)
}

func (m *mockGateway) Forecast(ctx context.Context, c weather.Coordinates) (*weather.Report, error) {
	args := m.Called(ctx, c)
	r, _ := args.Get(0).(*weather.Report)
	return r, args.Error(1)
}

func (m *mockGateway) Historical(ctx context.Context, c weather.Coordinates, r weather.DateRange) (*weather.Report, error) {
	args := m.Called(ctx, c, r)
	rep, _ := args.Get(0).(*weather.Report)
	return rep, args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Geocode(ctx context.Context, text string, limit int) ([]location.Location, error) {
	args := m.Called(ctx, text, limit)
	locs, _ := args.Get(0).([]location.Location)
	return locs, args.Error(1)
}

func (m *mockResolver) ReverseGeocode(ctx context.Context, lat, lon float64) (location.Location, bool, error) {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(location.Location), args.Bool(1), args.Error(2)
}

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) SearchWeatherVideos(ctx context.Context, name string, maxResults int) ([]video.Video, error) {
	args := m.Called(ctx, name, maxResults)
	v, _ := args.Get(0).([]video.Video)
	return v, args.Error(1)
}

type testEnv struct {
	app      *fiber.App
	gateway  *mockGateway
	resolver *mockResolver
	finder   *mockFinder
}

var today = time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		gateway:  &mockGateway{},
		resolver: &mockResolver{},
		finder:   &mockFinder{},
	}
	clock := func() time.Time { return today }

	env.app = NewApp(Dependencies{
		Weather:      weather.NewService(env.gateway).WithClock(clock),
		Resolver:     env.resolver,
		Videos:       env.finder,
		Queries:      queries.NewService(store.NewMemoryStore()).WithClock(clock),
		GeocodeLimit: 5,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (e *testEnv) doJSON(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()

	resp, raw := e.do(t, method, target, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func ptr[T any](v T) *T { return &v }

func series(vals ...float64) weather.Series {
	out := make(weather.Series, len(vals))
	for i := range vals {
		out[i] = &vals[i]
	}
	return out
}

func codes(vals ...int) weather.Codes {
	out := make(weather.Codes, len(vals))
	for i := range vals {
		out[i] = &vals[i]
	}
	return out
}

var (
	nycCurrent = &weather.Report{
		Latitude:  40.71,
		Longitude: -74.0,
		CurrentWeather: &weather.CurrentWeather{
			Temperature: 3.4, WindSpeed: 11.2, WindDirection: 250, WeatherCode: 3, IsDay: 1, Time: "2024-01-10T14:00",
		},
	}
	nycForecast = &weather.Report{
		Latitude:  40.71,
		Longitude: -74.0,
		Timezone:  "America/New_York",
		Daily: &weather.DailyWeather{
			Time:             []string{"2024-01-10", "2024-01-11"},
			Temperature2mMax: series(5, 6),
			Temperature2mMin: series(-1, 0),
			WeatherCode:      codes(3, 61),
			PrecipitationSum: series(0, 2.5),
			WindSpeed10mMax:  series(12, 20),
		},
	}
)

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","service":"weather-lookup"}`, string(raw))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestUnknownRouteUsesFailureBody(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestCurrentWeatherRejectsOutOfRangeCoordinates(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, http.MethodGet, "/api/weather/current?lat=91&lon=0", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Latitude must be between -90 and 90, longitude between -180 and 180", body["error"])
	env.gateway.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
}

func TestCurrentWeatherParameterErrors(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, http.MethodGet, "/api/weather/current?lat=40", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Latitude and longitude are required", body["error"])

	status, body = env.doJSON(t, http.MethodGet, "/api/weather/current?lat=abc&lon=1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid latitude or longitude", body["error"])

	status, _ = env.doJSON(t, http.MethodGet, "/api/weather/forecast?lat=NaN&lon=1", "")
	assert.Equal(t, http.StatusBadRequest, status)

	env.gateway.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
	env.gateway.AssertNotCalled(t, "Forecast", mock.Anything, mock.Anything)
}

func TestCurrentWeatherBoundaryCoordinates(t *testing.T) {
	env := newTestEnv(t)
	coords := weather.Coordinates{Latitude: -90, Longitude: 180}
	env.gateway.On("Current", mock.Anything, coords).Return(nycCurrent, nil).Once()

	status, body := env.doJSON(t, http.MethodGet, "/api/weather/current?lat=-90&lon=180", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	current := data["current_weather"].(map[string]any)
	assert.Equal(t, 3.4, current["temperature"])
	env.gateway.AssertExpectations(t)
}

func TestUpstreamFailureHidesDetails(t *testing.T) {
	env := newTestEnv(t)
	upstream := common.NewUpstreamError("openmeteo request failed", errors.New("dial tcp: secret-host refused"))
	env.gateway.On("Forecast", mock.Anything, mock.Anything).Return(nil, upstream).Once()

	resp, raw := env.do(t, http.MethodGet, "/api/weather/forecast?lat=40.7&lon=-74", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"error":"Failed to fetch forecast data. Please try again."}`, string(raw))
	assert.NotContains(t, string(raw), "secret-host")
}

func TestCombinedWeather(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.On("Current", mock.Anything, mock.Anything).Return(nycCurrent, nil).Once()
	env.gateway.On("Forecast", mock.Anything, mock.Anything).Return(nycForecast, nil).Once()

	status, body := env.doJSON(t, http.MethodGet, "/api/weather?lat=40.7128&lon=-74.006", "")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, 3.4, data["current"].(map[string]any)["temperature"])
	assert.Len(t, data["forecast"].(map[string]any)["time"], 2)
	assert.Equal(t, "America/New_York", data["timezone"])
}

func TestCombinedWeatherFailsAsAWhole(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.On("Current", mock.Anything, mock.Anything).Return(nycCurrent, nil).Maybe()
	env.gateway.On("Forecast", mock.Anything, mock.Anything).
		Return(nil, common.NewUpstreamError("openmeteo unavailable", nil)).Once()

	status, body := env.doJSON(t, http.MethodGet, "/api/weather?lat=40.7128&lon=-74.006", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to fetch weather data. Please try again.", body["error"])
	assert.NotContains(t, body, "data")
}

func TestHistoricalWeather(t *testing.T) {
	env := newTestEnv(t)
	report := &weather.Report{
		Latitude:  40.71,
		Longitude: -74.0,
		Daily: &weather.DailyWeather{
			Time:              []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"},
			Temperature2mMax:  series(4, 5, 6, 7, 8),
			Temperature2mMin:  series(-2, -1, 0, 1, 2),
			Temperature2mMean: series(1, 2, 3, 4, 5),
			WeatherCode:       codes(0, 0, 61, 3, 0),
			PrecipitationSum:  series(0, 0, 1, 0, 0),
			WindSpeed10mMax:   series(10, 11, 12, 13, 14),
		},
	}
	env.gateway.On("Historical", mock.Anything, mock.Anything, mock.MatchedBy(func(r weather.DateRange) bool {
		return r.StartString() == "2024-01-01" && r.EndString() == "2024-01-05"
	})).Return(report, nil).Once()

	status, body := env.doJSON(t, http.MethodGet,
		"/api/weather/historical?lat=40.7128&lon=-74.006&startDate=2024-01-01&endDate=2024-01-05", "")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, map[string]any{"start": "2024-01-01", "end": "2024-01-05"}, body["dateRange"])
	daily := body["data"].(map[string]any)["daily"].(map[string]any)
	assert.Len(t, daily["time"], 5)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(5), summary["days"])
	assert.Equal(t, 3.0, summary["avgTemp"])
	assert.Equal(t, "clear", summary["dominantCondition"])
	env.gateway.AssertExpectations(t)
}

func TestHistoricalWeatherNullDays(t *testing.T) {
	env := newTestEnv(t)
	var report weather.Report
	require.NoError(t, json.Unmarshal([]byte(`{"latitude":40.71,"longitude":-74.0,
		"current_weather_units":{"interval":"seconds"},
		"daily":{"time":["2024-01-01","2024-01-02"],"temperature_2m_max":[12.5,null],
		"temperature_2m_min":[3.1,null],"temperature_2m_mean":[7.0,null],
		"weathercode":[3,null],"precipitation_sum":[0,null],"windspeed_10m_max":[9,null]}}`), &report))
	env.gateway.On("Historical", mock.Anything, mock.Anything, mock.Anything).Return(&report, nil).Once()

	status, body := env.doJSON(t, http.MethodGet,
		"/api/weather/historical?lat=40.7128&lon=-74.006&startDate=2024-01-01&endDate=2024-01-02", "")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Contains(t, data, "current_weather_units")
	daily := data["daily"].(map[string]any)
	assert.Equal(t, []any{12.5, nil}, daily["temperature_2m_max"])
	assert.Equal(t, []any{float64(3), nil}, daily["weathercode"])

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["days"])
	assert.Equal(t, 7.0, summary["avgTemp"])
	assert.Equal(t, 3.1, summary["minTemp"])
	assert.Equal(t, "cloudy", summary["dominantCondition"])
}

func TestHistoricalWeatherValidation(t *testing.T) {
	cases := map[string]struct {
		query   string
		message string
	}{
		"missing dates": {
			query:   "lat=40&lon=-74",
			message: "Missing required parameters: lat, lon, startDate, endDate",
		},
		"bad format": {
			query:   "lat=40&lon=-74&startDate=2024/01/01&endDate=2024-01-05",
			message: "Dates must be in YYYY-MM-DD format",
		},
		"reversed": {
			query:   "lat=40&lon=-74&startDate=2024-01-05&endDate=2024-01-01",
			message: "Start date must be before or equal to end date",
		},
		"future": {
			query:   "lat=40&lon=-74&startDate=2024-05-30&endDate=2024-06-02",
			message: "End date cannot be in the future",
		},
		"bad latitude": {
			query:   "lat=-91&lon=-74&startDate=2024-01-01&endDate=2024-01-05",
			message: "Latitude must be between -90 and 90, longitude between -180 and 180",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)

			status, body := env.doJSON(t, http.MethodGet, "/api/weather/historical?"+tc.query, "")
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.message, body["error"])
			env.gateway.AssertNotCalled(t, "Historical", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGeocodeAutoSelect(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.On("Geocode", mock.Anything, "Paris", 5).Return([]location.Location{
		{Name: "Paris, France", Latitude: 48.8566, Longitude: 2.3522, Confidence: ptr(0.95), Type: "city"},
		{Name: "Paris, TX, United States", Latitude: 33.66, Longitude: -95.55, Confidence: ptr(0.6)},
	}, nil).Once()

	status, body := env.doJSON(t, http.MethodPost, "/api/geocode", `{"location":"  Paris "}`)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["locations"], 2)

	selection := body["selection"].(map[string]any)
	assert.Equal(t, true, selection["autoSelect"])
	assert.Equal(t, "Paris, France", selection["location"].(map[string]any)["name"])
}

func TestGeocodeNumericQuerySuggests(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.On("Geocode", mock.Anything, "90210", 5).Return([]location.Location{
		{Name: "Beverly Hills, CA 90210, United States", Latitude: 34.09, Longitude: -118.41, Confidence: ptr(1.0)},
	}, nil).Once()

	status, body := env.doJSON(t, http.MethodPost, "/api/geocode", `{"location":"90210"}`)
	require.Equal(t, http.StatusOK, status)

	selection := body["selection"].(map[string]any)
	assert.Equal(t, false, selection["autoSelect"])
	assert.Len(t, selection["suggestions"], 1)
}

func TestGeocodeErrors(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.On("Geocode", mock.Anything, "zzzzqqq", 5).Return([]location.Location{}, nil).Once()

	status, body := env.doJSON(t, http.MethodPost, "/api/geocode", `{"location":"zzzzqqq"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Location not found. Please try a different search term.", body["error"])

	status, body = env.doJSON(t, http.MethodPost, "/api/geocode", `{"location":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Location is required", body["error"])

	status, body = env.doJSON(t, http.MethodPost, "/api/geocode", `{"location":42}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Location is required", body["error"])
}

func TestGeocodeReverse(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.On("ReverseGeocode", mock.Anything, 48.8584, 2.2945).
		Return(location.Location{Name: "Champ de Mars, Paris, France", Latitude: 48.8584, Longitude: 2.2945}, true, nil).Once()
	env.resolver.On("ReverseGeocode", mock.Anything, 0.0, 0.0).
		Return(location.Location{}, false, nil).Once()

	status, body := env.doJSON(t, http.MethodPost, "/api/geocode", `{"latitude":48.8584,"longitude":2.2945,"reverse":true}`)
	require.Equal(t, http.StatusOK, status)
	locs := body["locations"].([]any)
	require.Len(t, locs, 1)
	assert.Equal(t, "Champ de Mars, Paris, France", locs[0].(map[string]any)["name"])

	status, body = env.doJSON(t, http.MethodPost, "/api/geocode", `{"latitude":0,"longitude":0,"reverse":true}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Location not found for these coordinates.", body["error"])

	status, _ = env.doJSON(t, http.MethodPost, "/api/geocode", `{"latitude":95,"longitude":0,"reverse":true}`)
	assert.Equal(t, http.StatusBadRequest, status)
	env.resolver.AssertNumberOfCalls(t, "ReverseGeocode", 2)
}

func TestGeocodeReverseStringCoordinates(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.On("ReverseGeocode", mock.Anything, 48.8584, 2.2945).
		Return(location.Location{Name: "Champ de Mars, Paris, France", Latitude: 48.8584, Longitude: 2.2945}, true, nil).Once()

	status, body := env.doJSON(t, http.MethodPost, "/api/geocode", `{"latitude":"48.8584","longitude":" 2.2945","reverse":true}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["locations"], 1)

	status, body = env.doJSON(t, http.MethodPost, "/api/geocode", `{"latitude":"abc","longitude":"2.2945","reverse":true}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Latitude must be between -90 and 90, longitude between -180 and 180", body["error"])
	env.resolver.AssertNumberOfCalls(t, "ReverseGeocode", 1)
}

func TestGeocodeMissingCredential(t *testing.T) {
	env := newTestEnv(t)
	app := NewApp(Dependencies{
		Weather:  weather.NewService(env.gateway),
		Resolver: location.Unavailable(common.NewConfigError("GEOAPIFY_API_KEY is not set")),
		Videos:   env.finder,
		Queries:  queries.NewService(store.NewMemoryStore()),
	})
	env.app = app

	status, body := env.doJSON(t, http.MethodPost, "/api/geocode", `{"location":"Paris"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to geocode location. Please try again.", body["error"])
}

func TestVideoSearch(t *testing.T) {
	env := newTestEnv(t)
	env.finder.On("SearchWeatherVideos", mock.Anything, "Toronto", 3).Return([]video.Video{
		{ID: "abc123", Title: "Toronto storm", URL: video.WatchURL("abc123")},
	}, nil).Once()

	status, body := env.doJSON(t, http.MethodGet, "/api/youtube/search?location=Toronto", "")
	require.Equal(t, http.StatusOK, status)
	videos := body["data"].([]any)
	require.Len(t, videos, 1)
	assert.Equal(t, "abc123", videos[0].(map[string]any)["id"])

	status, body = env.doJSON(t, http.MethodGet, "/api/youtube/search", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Location parameter is required", body["error"])

	status, _ = env.doJSON(t, http.MethodGet, "/api/youtube/search?location=Toronto&maxResults=51", "")
	assert.Equal(t, http.StatusBadRequest, status)

	env.finder.AssertNumberOfCalls(t, "SearchWeatherVideos", 1)
}

func TestVideoSearchUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.finder.On("SearchWeatherVideos", mock.Anything, "Toronto", 10).
		Return(nil, common.NewUpstreamError("youtube request failed", nil)).Once()

	status, body := env.doJSON(t, http.MethodGet, "/api/youtube/search?location=Toronto&maxResults=10", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to search YouTube videos", body["error"])
}

const outlookJSON = `{"current":{"temperature":3.4,"windspeed":11.2,"winddirection":250,"weathercode":3,"is_day":1,"time":"2024-01-10T14:00"},"forecast":{"time":["2024-01-10"],"temperature_2m_max":[5],"temperature_2m_min":[-1],"weathercode":[3],"precipitation_sum":[0],"windspeed_10m_max":[12]}}`

func TestSavedQueryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, http.MethodPost, "/api/queries",
		`{"locationName":"New York, NY","latitude":40.7128,"longitude":-74.006,"weatherData":`+outlookJSON+`,"geocodingConfidence":0.97,"locationType":"city"}`)
	require.Equal(t, http.StatusOK, status, body)
	created := body["query"].(map[string]any)
	assert.Equal(t, float64(1), created["id"])
	assert.Nil(t, created["label"])

	status, body = env.doJSON(t, http.MethodGet, "/api/queries", "")
	require.Equal(t, http.StatusOK, status)
	list := body["queries"].([]any)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0].(map[string]any), "weatherData")

	status, body = env.doJSON(t, http.MethodPut, "/api/queries/1", `{"label":"Work trip"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Work trip", body["query"].(map[string]any)["label"])

	status, body = env.doJSON(t, http.MethodGet, "/api/queries/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Work trip", body["query"].(map[string]any)["label"])

	resp, raw := env.do(t, http.MethodGet, "/api/queries/1/export?format=csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="weather-New-York--NY-1.csv"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(string(raw), "Query Information\nLabel,Work trip\n"))

	resp, raw = env.do(t, http.MethodGet, "/api/queries/1/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, string(raw), `"geocodingConfidence": 0.97`)

	status, body = env.doJSON(t, http.MethodDelete, "/api/queries/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Query deleted successfully", body["message"])

	status, body = env.doJSON(t, http.MethodDelete, "/api/queries/1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Query not found", body["error"])

	status, _ = env.doJSON(t, http.MethodGet, "/api/queries/1", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSavedQueryErrors(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, http.MethodPost, "/api/queries", `{"locationName":"Nowhere","latitude":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", body["error"])

	status, body = env.doJSON(t, http.MethodGet, "/api/queries/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid query ID", body["error"])

	status, body = env.doJSON(t, http.MethodPut, "/api/queries/99", `{"label":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Query not found", body["error"])

	status, body = env.doJSON(t, http.MethodGet, "/api/queries/99/export?format=csv", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Query not found", body["error"])
}

func TestExportHistoricalPayloadAsCSV(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.doJSON(t, http.MethodPost, "/api/queries",
		`{"locationName":"Oslo","latitude":59.91,"longitude":10.75,"startDate":"2024-01-01","endDate":"2024-01-05",`+
			`"weatherData":{"daily":{"time":["2024-01-01"],"temperature_2m_max":[1],"temperature_2m_min":[-3],"weathercode":[71],"precipitation_sum":[2],"windspeed_10m_max":[9]}}}`)
	require.Equal(t, http.StatusOK, status)

	resp, raw := env.do(t, http.MethodGet, "/api/queries/1/export?format=csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "No weather data available", string(raw))

	status, body := env.doJSON(t, http.MethodGet, "/api/queries/1/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid format. Use ?format=json or ?format=csv", body["error"])
}
