package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rsichomba/portfolio-lms/database"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// HandleCheckHealth reports whether the API and its database are up
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.ServiceUnavailable(c, "Database unreachable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
