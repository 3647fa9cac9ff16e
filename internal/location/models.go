package location

import "context"

// Location is a candidate place returned by a geocoding provider.
type Location struct {
	Name       string   `json:"name"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Confidence *float64 `json:"confidence,omitempty"` // 0-1, provider ranking score
	Type       string   `json:"type,omitempty"`
	Country    string   `json:"country,omitempty"`
	City       string   `json:"city,omitempty"`
}

// Resolver turns free text or coordinates into candidate locations.
type Resolver interface {
	// Geocode returns at most limit candidates, best first. No match is an
	// empty slice, not an error.
	Geocode(ctx context.Context, text string, limit int) ([]Location, error)

	// ReverseGeocode returns the nearest named place; found is false when the
	// provider has nothing for the coordinates.
	ReverseGeocode(ctx context.Context, lat, lon float64) (loc Location, found bool, err error)
}

type unavailable struct {
	err error
}

// Unavailable returns a Resolver that fails every call with err. It stands in
// for a provider whose construction failed (e.g. missing credential).
func Unavailable(err error) Resolver {
	return unavailable{err: err}
}

func (u unavailable) Geocode(context.Context, string, int) ([]Location, error) {
	return nil, u.err
}

func (u unavailable) ReverseGeocode(context.Context, float64, float64) (Location, bool, error) {
	return Location{}, false, u.err
}
