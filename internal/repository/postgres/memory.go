package postgres

import (
	"context"
	"sort"
	"sync"

	"github.com/routesafe/backend/internal/domain"
)

// MemoryRepository implements both repository interfaces in memory.
// Used when no database is configured and by the service tests. The
// per-route turn slice is swapped whole under the mutex, so readers get
// the same complete-set visibility the transactional replace gives.
type MemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]domain.Route
	turns  map[string][]domain.SharpTurn
	spots  map[string][]domain.BlindSpot
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		routes: make(map[string]domain.Route),
		turns:  make(map[string][]domain.SharpTurn),
		spots:  make(map[string][]domain.BlindSpot),
	}
}

// SaveRoute stores a route and its points
func (r *MemoryRepository) SaveRoute(ctx context.Context, route domain.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route.ID] = route
	return nil
}

// GetRoute returns a stored route or ErrRouteNotFound
func (r *MemoryRepository) GetRoute(ctx context.Context, routeID string) (domain.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[routeID]
	if !ok {
		return domain.Route{}, domain.ErrRouteNotFound
	}
	return route, nil
}

// ReplaceSharpTurns swaps the full turn set for a route
func (r *MemoryRepository) ReplaceSharpTurns(ctx context.Context, routeID string, turns []domain.SharpTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	replacement := make([]domain.SharpTurn, len(turns))
	copy(replacement, turns)
	r.turns[routeID] = replacement
	return nil
}

// ListSharpTurns returns stored turns in the requested order
func (r *MemoryRepository) ListSharpTurns(ctx context.Context, routeID string, q domain.TurnQuery) ([]domain.SharpTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.SharpTurn, len(r.turns[routeID]))
	copy(results, r.turns[routeID])

	if q.SortBy == domain.SortByDistanceAsc {
		sort.Slice(results, func(i, j int) bool {
			return results[i].DistanceFromStartKm < results[j].DistanceFromStartKm
		})
	} else {
		sort.Slice(results, func(i, j int) bool {
			return results[i].RiskScore > results[j].RiskScore
		})
	}
	return results, nil
}

// SaveBlindSpots stores blind spot records for a route
func (r *MemoryRepository) SaveBlindSpots(ctx context.Context, routeID string, spots []domain.BlindSpot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	replacement := make([]domain.BlindSpot, len(spots))
	copy(replacement, spots)
	r.spots[routeID] = replacement
	return nil
}

// ListBlindSpots returns stored blind spots, highest risk first
func (r *MemoryRepository) ListBlindSpots(ctx context.Context, routeID string) ([]domain.BlindSpot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.BlindSpot, len(r.spots[routeID]))
	copy(results, r.spots[routeID])
	sort.Slice(results, func(i, j int) bool {
		return results[i].RiskScore > results[j].RiskScore
	})
	return results, nil
}

// Health always succeeds in memory mode
func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}
