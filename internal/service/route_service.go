package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/routesafe/backend/internal/domain"
	"github.com/routesafe/backend/pkg/geo"
)

// Coordinate is a raw (latitude, longitude) pair in travel order
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// RouteService builds and stores route aggregates from ordered coordinates
type RouteService struct {
	repo domain.RouteRepository
}

// NewRouteService creates a new route service
func NewRouteService(repo domain.RouteRepository) *RouteService {
	return &RouteService{repo: repo}
}

// CreateRoute assembles a route from ordered coordinates, computing
// cumulative distances in both directions, and persists it. Points are
// immutable after this call.
func (s *RouteService) CreateRoute(ctx context.Context, name string, terrain domain.TerrainType, coords []Coordinate) (domain.Route, error) {
	if len(coords) < domain.MinRoutePoints {
		return domain.Route{}, domain.ErrInsufficientGPSPoints
	}

	route := domain.Route{
		ID:        uuid.NewString(),
		Name:      name,
		Terrain:   terrain,
		CreatedAt: time.Now(),
	}
	route.Points = buildPoints(route.ID, coords)

	if err := s.repo.SaveRoute(ctx, route); err != nil {
		return domain.Route{}, fmt.Errorf("route service: save route: %w", err)
	}

	return route, nil
}

// GetRoute loads a route with its ordered points
func (s *RouteService) GetRoute(ctx context.Context, routeID string) (domain.Route, error) {
	return s.repo.GetRoute(ctx, routeID)
}

// buildPoints derives the ordered point records with cumulative distances
func buildPoints(routeID string, coords []Coordinate) []domain.RoutePoint {
	points := make([]domain.RoutePoint, len(coords))

	cumulative := 0.0
	for i, c := range coords {
		if i > 0 {
			cumulative += geo.DistanceKm(
				coords[i-1].Latitude, coords[i-1].Longitude,
				c.Latitude, c.Longitude,
			)
		}
		points[i] = domain.RoutePoint{
			RouteID:             routeID,
			Latitude:            c.Latitude,
			Longitude:           c.Longitude,
			SequenceOrder:       i,
			DistanceFromStartKm: geo.RoundTo(cumulative, 2),
		}
	}

	total := cumulative
	for i := range points {
		points[i].DistanceToEndKm = geo.RoundTo(total-points[i].DistanceFromStartKm, 2)
	}

	return points
}
