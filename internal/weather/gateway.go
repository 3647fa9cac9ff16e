package weather

import "context"

// Gateway abstracts the weather data source (Open-Meteo).
type Gateway interface {
	Current(ctx context.Context, c Coordinates) (*Report, error)
	Forecast(ctx context.Context, c Coordinates) (*Report, error)
	// Historical returns the daily series for r, both ends inclusive.
	Historical(ctx context.Context, c Coordinates, r DateRange) (*Report, error)
}
