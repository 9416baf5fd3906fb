package handlers

import (
	"github.com/gofiber/fiber/v2"

	"callerinfo/app"
)

// Health reports row counts; it reads the database directly so it works
// even while the store is draining.
func Health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := readContext(c)
		defer cancel()

		stats, err := a.Repo.Counts(ctx)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}

		return success(c, fiber.Map{"status": "ok", "records": stats})
	}
}
