package httpapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/location"
	"github.com/i474232898/weather-lookup/internal/queries"
	"github.com/i474232898/weather-lookup/internal/video"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const serviceName = "weather-lookup"

// Dependencies are the services the HTTP handlers orchestrate.
type Dependencies struct {
	Weather  *weather.Service
	Resolver location.Resolver
	Videos   video.Finder
	Queries  *queries.Service

	// GeocodeLimit caps forward-geocoding candidates (default 5).
	GeocodeLimit int
}

// NewApp builds the fiber app with middleware, the health check and all API
// routes.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	RegisterRoutes(app, deps)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	if deps.GeocodeLimit <= 0 {
		deps.GeocodeLimit = 5
	}

	api := app.Group("/api")

	api.Post("/geocode", geocodeHandler(deps.Resolver, deps.GeocodeLimit))

	api.Get("/weather", combinedWeatherHandler(deps.Weather))
	api.Get("/weather/current", currentWeatherHandler(deps.Weather))
	api.Get("/weather/forecast", forecastHandler(deps.Weather))
	api.Get("/weather/historical", historicalHandler(deps.Weather))

	api.Get("/youtube/search", videoSearchHandler(deps.Videos))

	api.Get("/queries", listQueriesHandler(deps.Queries))
	api.Post("/queries", createQueryHandler(deps.Queries))
	api.Get("/queries/:id", getQueryHandler(deps.Queries))
	api.Put("/queries/:id", updateQueryHandler(deps.Queries))
	api.Delete("/queries/:id", deleteQueryHandler(deps.Queries))
	api.Get("/queries/:id/export", exportQueryHandler(deps.Queries))
}

// ErrorHandler renders every error as {success:false, error:<message>}.
// Only *fiber.Error messages reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// fail maps err to a client-facing *fiber.Error. Validation and not-found
// messages are shown as-is; anything else is replaced by fallback and logged
// with its full chain.
func fail(c *fiber.Ctx, err error, fallback string) error {
	code := fiber.StatusInternalServerError
	message := fallback

	switch common.TypeOf(err) {
	case common.ErrorTypeValidation:
		code = fiber.StatusBadRequest
		message = common.MessageOf(err)
	case common.ErrorTypeNotFound:
		code = fiber.StatusNotFound
		message = common.MessageOf(err)
	}

	event := log.Warn()
	if code >= fiber.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("request_id", requestID(c)).
		Str("route", c.Route().Path).
		Int("status", code).
		Msg(fallback)

	return fiber.NewError(code, message)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, common.NewValidationError("Invalid query ID")
	}
	return id, nil
}
