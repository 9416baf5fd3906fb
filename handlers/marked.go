package handlers

import (
	"github.com/gofiber/fiber/v2"

	"callerinfo/app"
	"callerinfo/models"
)

func GetMarkedRecords(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := readContext(c)
		defer cancel()

		records, err := a.Store.FetchMarked().Wait(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch marked records", err)
		}

		return success(c, fiber.Map{"marked": records})
	}
}

func GetMarkedRecord(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := c.Params("number")
		if number == "" {
			return badRequest(c, "number is required")
		}

		ctx, cancel := readContext(c)
		defer cancel()

		record, err := a.Store.FindMarked(number).Wait(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to find marked record", err)
		}
		if record == nil {
			return notFound(c, "Marked record not found")
		}

		return success(c, fiber.Map{"marked": record})
	}
}

// MarkNumber saves a user classification and the caller entry derived from it
func MarkNumber(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SaveMarkedRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		record := a.CallService.Mark(req)

		return accepted(c, fiber.Map{"marked": record})
	}
}

// ReportMarkedRecord flags the marked record of a number as reported
func ReportMarkedRecord(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := c.Params("number")
		if number == "" {
			return badRequest(c, "number is required")
		}

		a.Store.MarkReported(number)

		return accepted(c, nil)
	}
}

// PromoteMarkedRecord turns the marked record of a number into a caller entry
func PromoteMarkedRecord(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := c.Params("number")
		if number == "" {
			return badRequest(c, "number is required")
		}

		ctx, cancel := readContext(c)
		defer cancel()

		record, err := a.Store.FindMarked(number).Wait(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to find marked record", err)
		}
		if record == nil {
			return notFound(c, "Marked record not found")
		}

		a.Store.PromoteMarked(*record)

		return accepted(c, fiber.Map{"caller": models.CallerFromMarked(*record)})
	}
}
