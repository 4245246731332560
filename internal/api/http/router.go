package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-classifier/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Classify *handlers.ClassifyHandler
	Route    *handlers.RouteHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	api.Get("/health", cfg.Classify.Health)
	api.Post("/predict", cfg.Classify.Predict)
	api.Get("/predictions", cfg.Classify.ListPredictions)

	api.Get("/backends", cfg.Route.ListBackends)
	api.Post("/tickets/route", cfg.Route.RouteTicket)
}
