package httpapi

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	weatherFailed    = "Failed to fetch weather data. Please try again."
	forecastFailed   = "Failed to fetch forecast data. Please try again."
	historicalFailed = "Failed to fetch historical weather data"
)

// parseCoordinates reads lat/lon query parameters. Range checks are left to
// the weather service.
func parseCoordinates(c *fiber.Ctx) (weather.Coordinates, error) {
	lat, lon := c.Query("lat"), c.Query("lon")
	if lat == "" || lon == "" {
		return weather.Coordinates{}, common.NewValidationError("Latitude and longitude are required")
	}

	latitude, errLat := strconv.ParseFloat(lat, 64)
	longitude, errLon := strconv.ParseFloat(lon, 64)
	if errLat != nil || errLon != nil || !finite(latitude) || !finite(longitude) {
		return weather.Coordinates{}, common.NewValidationError("Invalid latitude or longitude")
	}

	return weather.Coordinates{Latitude: latitude, Longitude: longitude}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func combinedWeatherHandler(svc *weather.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coords, err := parseCoordinates(c)
		if err != nil {
			return fail(c, err, weatherFailed)
		}

		outlook, err := svc.CurrentAndForecast(c.UserContext(), coords)
		if err != nil {
			return fail(c, err, weatherFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    outlook,
		})
	}
}

func currentWeatherHandler(svc *weather.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coords, err := parseCoordinates(c)
		if err != nil {
			return fail(c, err, weatherFailed)
		}

		report, err := svc.Current(c.UserContext(), coords)
		if err != nil {
			return fail(c, err, weatherFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    report,
		})
	}
}

func forecastHandler(svc *weather.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coords, err := parseCoordinates(c)
		if err != nil {
			return fail(c, err, forecastFailed)
		}

		report, err := svc.Forecast(c.UserContext(), coords)
		if err != nil {
			return fail(c, err, forecastFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    report,
		})
	}
}

func historicalHandler(svc *weather.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := weather.HistoricalQuery{
			StartDate: c.Query("startDate"),
			EndDate:   c.Query("endDate"),
		}
		if c.Query("lat") == "" || c.Query("lon") == "" || q.StartDate == "" || q.EndDate == "" {
			return fail(c, common.NewValidationError("Missing required parameters: lat, lon, startDate, endDate"), historicalFailed)
		}

		coords, err := parseCoordinates(c)
		if err != nil {
			return fail(c, err, historicalFailed)
		}
		q.Coordinates = coords

		res, err := svc.Historical(c.UserContext(), q)
		if err != nil {
			return fail(c, err, historicalFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    res.Report,
			"dateRange": fiber.Map{
				"start": res.Range.StartString(),
				"end":   res.Range.EndString(),
			},
			"summary": res.Summary,
		})
	}
}
