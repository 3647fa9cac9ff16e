package httpapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/location"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const geocodeFailed = "Failed to geocode location. Please try again."

// geocodeRequest is either {location} or {latitude, longitude, reverse: true}.
// Location is untyped so that a non-string value is reported as missing.
type geocodeRequest struct {
	Location  any         `json:"location"`
	Latitude  *coordinate `json:"latitude"`
	Longitude *coordinate `json:"longitude"`
	Reverse   bool        `json:"reverse"`
}

// coordinate accepts a JSON number or a numeric string such as "40.71". A
// string that is not a number decodes to NaN and fails range validation.
type coordinate float64

func (v *coordinate) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f = math.NaN()
		}
		*v = coordinate(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(bytes.TrimSpace(data), &f); err != nil {
		return err
	}
	*v = coordinate(f)
	return nil
}

func geocodeHandler(resolver location.Resolver, limit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req geocodeRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, common.NewValidationError("Invalid request body"), geocodeFailed)
		}

		if req.Reverse && req.Latitude != nil && req.Longitude != nil {
			return reverseGeocode(c, resolver, weather.Coordinates{
				Latitude:  float64(*req.Latitude),
				Longitude: float64(*req.Longitude),
			})
		}

		text, _ := req.Location.(string)
		text = strings.TrimSpace(text)
		if text == "" {
			return fail(c, common.NewValidationError("Location is required"), geocodeFailed)
		}

		candidates, err := resolver.Geocode(c.UserContext(), text, limit)
		if err != nil {
			return fail(c, err, geocodeFailed)
		}
		if len(candidates) == 0 {
			return fail(c, common.NewNotFoundError("Location not found. Please try a different search term."), geocodeFailed)
		}

		return c.JSON(fiber.Map{
			"success":   true,
			"locations": candidates,
			"selection": location.Disambiguate(text, candidates),
		})
	}
}

func reverseGeocode(c *fiber.Ctx, resolver location.Resolver, coords weather.Coordinates) error {
	if !finite(coords.Latitude) || !finite(coords.Longitude) {
		return fail(c, common.NewValidationError("Latitude must be between -90 and 90, longitude between -180 and 180"), geocodeFailed)
	}
	if err := weather.ValidateCoordinates(coords); err != nil {
		return fail(c, err, geocodeFailed)
	}

	loc, found, err := resolver.ReverseGeocode(c.UserContext(), coords.Latitude, coords.Longitude)
	if err != nil {
		return fail(c, err, geocodeFailed)
	}
	if !found {
		return fail(c, common.NewNotFoundError("Location not found for these coordinates."), geocodeFailed)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"locations": []location.Location{loc},
		"selection": location.Selection{AutoSelect: true, Location: &loc, Suggestions: []location.Location{}},
	})
}
