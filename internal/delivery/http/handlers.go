package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/routesafe/backend/internal/domain"
	"github.com/routesafe/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	routeSvc    *service.RouteService
	analysisSvc *service.AnalysisService
	hazards     service.HazardRepository
}

// NewHandler creates a new handler
func NewHandler(routeSvc *service.RouteService, analysisSvc *service.AnalysisService, hazards service.HazardRepository) *Handler {
	return &Handler{
		routeSvc:    routeSvc,
		analysisSvc: analysisSvc,
		hazards:     hazards,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	if err := h.hazards.Health(c.Context()); err != nil {
		status = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":  status,
		"service": "routesafe-backend",
		"version": "1.0.0",
	})
}

// createRouteRequest is the POST /routes payload
type createRouteRequest struct {
	Name    string               `json:"name"`
	Terrain domain.TerrainType   `json:"terrain"`
	Points  []service.Coordinate `json:"points"`
}

// CreateRoute stores a new route from ordered coordinates
func (h *Handler) CreateRoute(c *fiber.Ctx) error {
	var req createRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Terrain == "" {
		req.Terrain = domain.TerrainFlat
	}

	route, err := h.routeSvc.CreateRoute(c.Context(), req.Name, req.Terrain, req.Points)
	if errors.Is(err, domain.ErrInsufficientGPSPoints) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Route needs at least 5 ordered points")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create route")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    route,
	})
}

// GetRoute returns a route with its ordered points
func (h *Handler) GetRoute(c *fiber.Ctx) error {
	route, err := h.routeSvc.GetRoute(c.Context(), c.Params("id"))
	if errors.Is(err, domain.ErrRouteNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch route")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    route,
	})
}

// AnalyzeRoute runs the full hazard analysis for a route. Subsystem
// failures come back inside the result; only validation failures map to
// error statuses.
func (h *Handler) AnalyzeRoute(c *fiber.Ctx) error {
	result, err := h.analysisSvc.AnalyzeRoute(c.Context(), c.Params("id"))
	if errors.Is(err, domain.ErrRouteNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	}
	if errors.Is(err, domain.ErrInsufficientGPSPoints) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Route needs at least 5 ordered points")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to analyze route")
	}

	return c.JSON(domain.AnalysisResponse{
		Data:    result,
		Success: true,
	})
}

// GetSharpTurns returns persisted turns for a route, sorted by risk
// (default) or by distance from the route start
func (h *Handler) GetSharpTurns(c *fiber.Ctx) error {
	sortBy := domain.DefaultTurnSortKey
	if c.Query("sort") == "distance" {
		sortBy = domain.SortByDistanceAsc
	}

	turns, err := h.hazards.ListSharpTurns(c.Context(), c.Params("id"), domain.TurnQuery{SortBy: sortBy})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch sharp turns")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    turns,
		"count":   len(turns),
	})
}

// GetBlindSpots returns persisted blind spots for a route
func (h *Handler) GetBlindSpots(c *fiber.Ctx) error {
	spots, err := h.hazards.ListBlindSpots(c.Context(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch blind spots")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    spots,
		"count":   len(spots),
	})
}
