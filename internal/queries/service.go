package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-lookup/internal/common"
)

var validate = validator.New()

// Service implements the saved-query operations over a Store.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the time source used for timestamps and default dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Timestamps are stored at microsecond precision in UTC.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create validates in and persists a new query.
func (s *Service) Create(ctx context.Context, in CreateInput) (*SavedQuery, error) {
	if strings.TrimSpace(in.LocationName) == "" || in.Latitude == nil || in.Longitude == nil || in.WeatherData.IsEmpty() {
		return nil, common.NewValidationError("Missing required fields")
	}
	if err := validate.Struct(in); err != nil {
		return nil, common.NewValidationError("Latitude must be between -90 and 90, longitude between -180 and 180")
	}

	now := s.timestamp()
	start, err := parseDate(in.StartDate, now)
	if err != nil {
		return nil, common.NewValidationError("startDate must be an RFC3339 timestamp or YYYY-MM-DD")
	}
	end, err := parseDate(in.EndDate, now)
	if err != nil {
		return nil, common.NewValidationError("endDate must be an RFC3339 timestamp or YYYY-MM-DD")
	}

	q := &SavedQuery{
		Label:               nullIfEmpty(in.Label),
		LocationName:        in.LocationName,
		Latitude:            *in.Latitude,
		Longitude:           *in.Longitude,
		StartDate:           start,
		EndDate:             end,
		WeatherData:         in.WeatherData,
		GeocodingConfidence: in.GeocodingConfidence,
		LocationType:        nullIfEmpty(in.LocationType),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.store.Create(ctx, q); err != nil {
		return nil, common.NewUnknownError("save query", err)
	}

	log.Debug().Int64("id", q.ID).Str("location", q.LocationName).Msg("saved query created")
	return q, nil
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, common.NewUnknownError("list queries", err)
	}
	if list == nil {
		list = []Summary{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*SavedQuery, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError("get query", err)
	}
	return q, nil
}

// UpdateLabel replaces the label of query id. An empty label clears it.
func (s *Service) UpdateLabel(ctx context.Context, id int64, label *string) (*SavedQuery, error) {
	q, err := s.store.UpdateLabel(ctx, id, nullIfEmpty(label), s.timestamp())
	if err != nil {
		return nil, storeError("update query", err)
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError("delete query", err)
	}
	log.Debug().Int64("id", id).Msg("saved query deleted")
	return nil
}

// Export renders query id in the given format ("json" or "csv").
func (s *Service) Export(ctx context.Context, id int64, format string) (*Export, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return Render(q, f)
}

func storeError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return common.NewNotFoundError("Query not found")
	}
	return common.NewUnknownError(op, err)
}

func nullIfEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	out := *v
	return &out
}

// parseDate accepts RFC3339 or YYYY-MM-DD (UTC midnight). Empty means now.
func parseDate(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC().Truncate(time.Microsecond), nil
	}
	return time.Parse("2006-01-02", v)
}
