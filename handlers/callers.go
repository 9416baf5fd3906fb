package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"callerinfo/app"
	"callerinfo/models"
)

func GetCallers(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := readContext(c)
		defer cancel()

		callers, err := a.Store.FetchCallers().Wait(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch callers", err)
		}

		return success(c, fiber.Map{"callers": callers})
	}
}

// GetCaller looks up the caller entry for a number
func GetCaller(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := c.Params("number")
		if number == "" {
			return badRequest(c, "number is required")
		}

		ctx, cancel := readContext(c)
		defer cancel()

		caller, err := a.Store.FindCaller(number).Wait(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to find caller", err)
		}
		if caller == nil {
			return notFound(c, "Caller not found")
		}

		return success(c, fiber.Map{"caller": caller})
	}
}

// SaveCaller creates a caller entry, or overwrites it when an id is given
func SaveCaller(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SaveCallerRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		caller := models.Caller{
			ID:         req.ID,
			Number:     req.Number,
			Name:       req.Name,
			LastUpdate: time.Now().UTC(),
			Type:       req.Type,
			Offline:    req.Offline,
		}
		a.Store.SaveCaller(caller)

		return accepted(c, fiber.Map{"caller": caller})
	}
}

func DeleteCaller(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return badRequest(c, "valid caller ID is required")
		}

		a.Store.RemoveCaller(models.Caller{ID: id})

		return accepted(c, nil)
	}
}

// Identify returns the caller entry and marked record known for a number
func Identify(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := readContext(c)
		defer cancel()

		id, err := a.CallService.Identify(ctx, c.Params("number"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to identify number", err)
		}

		return success(c, fiber.Map{"identification": id, "known": id.Known()})
	}
}
