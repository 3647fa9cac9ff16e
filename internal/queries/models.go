package queries

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// ErrNotFound is returned by a Store when no saved query has the given id.
var ErrNotFound = errors.New("saved query not found")

// SavedQuery is a persisted weather lookup.
type SavedQuery struct {
	ID                  int64           `json:"id"`
	Label               *string         `json:"label"`
	LocationName        string          `json:"locationName"`
	Latitude            float64         `json:"latitude"`
	Longitude           float64         `json:"longitude"`
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	WeatherData         weather.Payload `json:"weatherData"`
	GeocodingConfidence *float64        `json:"geocodingConfidence"`
	LocationType        *string         `json:"locationType"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// Summary is the list view of a SavedQuery; the weather payload and geocoding
// metadata are left out.
type Summary struct {
	ID           int64     `json:"id"`
	Label        *string   `json:"label"`
	LocationName string    `json:"locationName"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summarize drops the heavy fields of q.
func (q SavedQuery) Summarize() Summary {
	return Summary{
		ID:           q.ID,
		Label:        q.Label,
		LocationName: q.LocationName,
		Latitude:     q.Latitude,
		Longitude:    q.Longitude,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

// CreateInput is the body of a save request. Latitude and longitude are
// pointers so that 0 can be told apart from absent.
type CreateInput struct {
	Label               *string         `json:"label"`
	LocationName        string          `json:"locationName"`
	Latitude            *float64        `json:"latitude" validate:"omitempty,latitude"`
	Longitude           *float64        `json:"longitude" validate:"omitempty,longitude"`
	StartDate           string          `json:"startDate"`
	EndDate             string          `json:"endDate"`
	WeatherData         weather.Payload `json:"weatherData"`
	GeocodingConfidence *float64        `json:"geocodingConfidence"`
	LocationType        *string         `json:"locationType"`
}

// Store persists saved queries. Implementations live in internal/store.
type Store interface {
	// Create assigns q.ID.
	Create(ctx context.Context, q *SavedQuery) error

	// List returns every query, newest CreatedAt first; ties go to the higher id.
	List(ctx context.Context) ([]Summary, error)

	Get(ctx context.Context, id int64) (*SavedQuery, error)

	// UpdateLabel sets label (nil clears it) and updatedAt, returning the
	// updated row.
	UpdateLabel(ctx context.Context, id int64, label *string, updatedAt time.Time) (*SavedQuery, error)

	Delete(ctx context.Context, id int64) error
}
