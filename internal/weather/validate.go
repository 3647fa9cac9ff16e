package weather

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-lookup/internal/common"
)

var (
	validate  = validator.New()
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateCoordinates checks latitude ∈ [-90,90] and longitude ∈ [-180,180].
func ValidateCoordinates(c Coordinates) error {
	if err := validate.Struct(c); err != nil {
		return common.NewValidationError("Latitude must be between -90 and 90, longitude between -180 and 180")
	}
	return nil
}

// ParseDateRange validates a historical range given as YYYY-MM-DD strings.
// The end date may not be after today, judged by the calendar day of now in
// the server's local zone.
func ParseDateRange(start, end string, now time.Time) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, common.NewValidationError("Missing required parameters: startDate, endDate")
	}
	if !dateRegex.MatchString(start) || !dateRegex.MatchString(end) {
		return DateRange{}, common.NewValidationError("Dates must be in YYYY-MM-DD format")
	}

	s, err := time.ParseInLocation(DateLayout, start, time.Local)
	if err != nil {
		return DateRange{}, common.NewValidationError("Dates must be in YYYY-MM-DD format")
	}
	e, err := time.ParseInLocation(DateLayout, end, time.Local)
	if err != nil {
		return DateRange{}, common.NewValidationError("Dates must be in YYYY-MM-DD format")
	}

	if s.After(e) {
		return DateRange{}, common.NewValidationError("Start date must be before or equal to end date")
	}

	local := now.In(time.Local)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	if e.After(today) {
		return DateRange{}, common.NewValidationError("End date cannot be in the future")
	}

	return DateRange{Start: s, End: e}, nil
}

// StartString returns the start day as YYYY-MM-DD.
func (r DateRange) StartString() string {
	return r.Start.Format(DateLayout)
}

// EndString returns the end day as YYYY-MM-DD.
func (r DateRange) EndString() string {
	return r.End.Format(DateLayout)
}
