package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/location"
)

const defaultGeoapifyURL = "https://api.geoapify.com/v1/geocode"

// GeoapifyProvider implements location.Resolver for the Geoapify geocoding API.
type GeoapifyProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

var _ location.Resolver = (*GeoapifyProvider)(nil)

// NewGeoapifyProvider fails with a config error when apiKey is empty.
func NewGeoapifyProvider(client *http.Client, apiKey, baseURL string) (*GeoapifyProvider, error) {
	if apiKey == "" {
		return nil, common.NewConfigError("GEOAPIFY_API_KEY is not set")
	}
	if baseURL == "" {
		baseURL = defaultGeoapifyURL
	}

	return &GeoapifyProvider{
		name:    "geoapify",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("geoapify"),
	}, nil
}

func (p *GeoapifyProvider) Name() string {
	return p.name
}

type geoapifyResponse struct {
	Results []geoapifyResult `json:"results"`
}

type geoapifyResult struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Formatted  string  `json:"formatted"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	ResultType string  `json:"result_type"`
	Rank       *struct {
		Confidence *float64 `json:"confidence"`
	} `json:"rank"`
}

func (r geoapifyResult) toLocation() location.Location {
	loc := location.Location{
		Name:      r.Formatted,
		Latitude:  r.Lat,
		Longitude: r.Lon,
		Type:      r.ResultType,
		Country:   r.Country,
		City:      r.City,
	}
	if r.Rank != nil {
		loc.Confidence = r.Rank.Confidence
	}
	return loc
}

// Geocode searches free text. Results keep the provider's ranking.
func (p *GeoapifyProvider) Geocode(ctx context.Context, text string, limit int) ([]location.Location, error) {
	if limit <= 0 {
		limit = location.MaxSuggestions
	}

	values := url.Values{}
	values.Set("text", text)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("apiKey", p.apiKey)
	values.Set("format", "json")

	var payload geoapifyResponse
	if err := getJSON(ctx, p.client, p.circuit, p.name, joinURL(p.baseURL, "search"), values, &payload); err != nil {
		return nil, err
	}

	locs := make([]location.Location, 0, len(payload.Results))
	for _, r := range payload.Results {
		if len(locs) == limit {
			break
		}
		locs = append(locs, r.toLocation())
	}
	return locs, nil
}

// ReverseGeocode returns the first result for the coordinates.
func (p *GeoapifyProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (location.Location, bool, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("apiKey", p.apiKey)
	values.Set("format", "json")

	var payload geoapifyResponse
	if err := getJSON(ctx, p.client, p.circuit, p.name, joinURL(p.baseURL, "reverse"), values, &payload); err != nil {
		return location.Location{}, false, err
	}

	if len(payload.Results) == 0 {
		return location.Location{}, false, nil
	}
	return payload.Results[0].toLocation(), true, nil
}
