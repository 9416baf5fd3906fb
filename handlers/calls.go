package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"callerinfo/app"
	"callerinfo/models"
)

// GetCalls returns the call history, newest first
func GetCalls(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := readContext(c)
		defer cancel()

		calls, err := a.Store.FetchCalls().Wait(ctx)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch calls", err)
		}

		return success(c, fiber.Map{"calls": calls})
	}
}

// SaveCall stores a call record
func SaveCall(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateCallRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		call := models.CallRecord{
			Number:   req.Number,
			Time:     time.UnixMilli(req.Time).UTC(),
			RingTime: req.RingTime,
			Duration: req.Duration,
		}
		if req.Time == 0 {
			call.Time = time.Now().UTC()
		}
		a.Store.SaveCall(call)

		return accepted(c, fiber.Map{"call": call})
	}
}

// RecordIncomingCall stores a finished incoming call and identifies the caller
func RecordIncomingCall(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.IncomingCallRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		call, err := a.CallService.RecordIncoming(req.Number, req.RingTime, req.Duration)
		if err != nil {
			return badRequest(c, err.Error())
		}

		return accepted(c, fiber.Map{"call": call})
	}
}

// ClearCalls deletes the listed call records
func ClearCalls(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ClearCallsRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		calls := make([]models.CallRecord, len(req.IDs))
		for i, id := range req.IDs {
			calls[i] = models.CallRecord{ID: id}
		}
		a.Store.ClearCalls(calls)

		return accepted(c, fiber.Map{"count": len(calls)})
	}
}

// DeleteCall deletes a single call record
func DeleteCall(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return badRequest(c, "valid call ID is required")
		}

		a.Store.RemoveCall(models.CallRecord{ID: id})

		return accepted(c, nil)
	}
}
