package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/queries"
)

const (
	listQueriesFailed = "Failed to fetch saved queries"
	saveQueryFailed   = "Failed to save query"
	getQueryFailed    = "Failed to fetch query"
	updateQueryFailed = "Failed to update query"
	deleteQueryFailed = "Failed to delete query"
	exportQueryFailed = "Failed to export query"
)

func listQueriesHandler(svc *queries.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext())
		if err != nil {
			return fail(c, err, listQueriesFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"queries": list,
		})
	}
}

func createQueryHandler(svc *queries.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in queries.CreateInput
		if err := c.BodyParser(&in); err != nil {
			return fail(c, common.NewValidationError("Invalid request body"), saveQueryFailed)
		}

		q, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return fail(c, err, saveQueryFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"query":   q,
		})
	}
}

func getQueryHandler(svc *queries.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return fail(c, err, getQueryFailed)
		}

		q, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return fail(c, err, getQueryFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"query":   q,
		})
	}
}

type updateQueryRequest struct {
	Label *string `json:"label"`
}

func updateQueryHandler(svc *queries.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return fail(c, err, updateQueryFailed)
		}

		var req updateQueryRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, common.NewValidationError("Invalid request body"), updateQueryFailed)
		}

		q, err := svc.UpdateLabel(c.UserContext(), id, req.Label)
		if err != nil {
			return fail(c, err, updateQueryFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"query":   q,
		})
	}
}

func deleteQueryHandler(svc *queries.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return fail(c, err, deleteQueryFailed)
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return fail(c, err, deleteQueryFailed)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Query deleted successfully",
		})
	}
}

func exportQueryHandler(svc *queries.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return fail(c, err, exportQueryFailed)
		}

		exp, err := svc.Export(c.UserContext(), id, c.Query("format"))
		if err != nil {
			return fail(c, err, exportQueryFailed)
		}

		c.Set(fiber.HeaderContentType, exp.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exp.Filename))
		return c.Send(exp.Body)
	}
}
