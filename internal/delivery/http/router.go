package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/routesafe/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, routeSvc *service.RouteService, analysisSvc *service.AnalysisService, hazards service.HazardRepository) {
	handler := NewHandler(routeSvc, analysisSvc, hazards)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Post("/routes", handler.CreateRoute)
		api.Get("/routes/:id", handler.GetRoute)

		// Full-route hazard analysis
		api.Post("/routes/:id/analysis", handler.AnalyzeRoute)

		// Hazard query surface
		api.Get("/routes/:id/turns", handler.GetSharpTurns)
		api.Get("/routes/:id/blind-spots", handler.GetBlindSpots)
	}
}
