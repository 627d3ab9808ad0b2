package domain

import (
	"context"
)

// Turn sort orders accepted by the hazard query contract
const (
	SortByRiskDesc     = "risk_desc"
	SortByDistanceAsc  = "distance_asc"
	DefaultTurnSortKey = SortByRiskDesc
)

// TurnQuery selects and orders persisted turns for a route
type TurnQuery struct {
	SortBy string
}

// RouteRepository defines access to the route aggregate.
// This follows the Dependency Inversion Principle - domain defines the interface
type RouteRepository interface {
	// SaveRoute persists a route and its ordered points
	SaveRoute(ctx context.Context, route Route) error

	// GetRoute loads a route with its points in travel order.
	// Returns ErrRouteNotFound if no such route exists.
	GetRoute(ctx context.Context, routeID string) (Route, error)
}

// HazardRepository defines persistence for hazard records
type HazardRepository interface {
	// ReplaceSharpTurns atomically replaces all turn records for a route
	// with the given set. Readers observe the complete prior set or the
	// complete new set, never a mix.
	ReplaceSharpTurns(ctx context.Context, routeID string, turns []SharpTurn) error

	// ListSharpTurns retrieves persisted turns for a route
	ListSharpTurns(ctx context.Context, routeID string, q TurnQuery) ([]SharpTurn, error)

	// SaveBlindSpots persists blind spot records for a route
	SaveBlindSpots(ctx context.Context, routeID string, spots []BlindSpot) error

	// ListBlindSpots retrieves persisted blind spots for a route
	ListBlindSpots(ctx context.Context, routeID string) ([]BlindSpot, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
