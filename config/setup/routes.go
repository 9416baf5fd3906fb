package setup

import (
	"github.com/gofiber/fiber/v2"

	"callerinfo/app"
	"callerinfo/handlers"
	"callerinfo/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App, apiToken string) {
	fiberApp.Get("/health", handlers.Health(application))

	api := fiberApp.Group("/api", middleware.TokenRequired(apiToken))

	api.Get("/calls", handlers.GetCalls(application))
	api.Post("/calls", handlers.SaveCall(application))
	api.Delete("/calls", handlers.ClearCalls(application))
	api.Post("/calls/incoming", handlers.RecordIncomingCall(application))
	api.Delete("/calls/:id", handlers.DeleteCall(application))

	api.Get("/callers", handlers.GetCallers(application))
	api.Post("/callers", handlers.SaveCaller(application))
	api.Get("/callers/:number", handlers.GetCaller(application))
	api.Delete("/callers/:id", handlers.DeleteCaller(application))

	api.Get("/marked", handlers.GetMarkedRecords(application))
	api.Post("/marked", handlers.MarkNumber(application))
	api.Get("/marked/:number", handlers.GetMarkedRecord(application))
	api.Post("/marked/:number/report", handlers.ReportMarkedRecord(application))
	api.Post("/marked/:number/promote", handlers.PromoteMarkedRecord(application))

	api.Get("/identify/:number", handlers.Identify(application))
}
