package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/video"
)

const (
	videoSearchFailed = "Failed to search YouTube videos"
	defaultMaxResults = 3
	maxMaxResults     = 50
)

func videoSearchHandler(finder video.Finder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loc := c.Query("location")
		if loc == "" {
			return fail(c, common.NewValidationError("Location parameter is required"), videoSearchFailed)
		}

		maxResults := defaultMaxResults
		if raw := c.Query("maxResults"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxMaxResults {
				return fail(c, common.NewValidationError("maxResults must be between 1 and 50"), videoSearchFailed)
			}
			maxResults = n
		}

		videos, err := finder.SearchWeatherVideos(c.UserContext(), loc, maxResults)
		if err != nil {
			return fail(c, err, videoSearchFailed)
		}
		if videos == nil {
			videos = []video.Video{}
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    videos,
		})
	}
}
