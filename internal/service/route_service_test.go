package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routesafe/backend/internal/domain"
	"github.com/routesafe/backend/internal/repository/postgres"
)

func TestCreateRoute(t *testing.T) {
	t.Parallel()

	t.Run("rejects short coordinate lists", func(t *testing.T) {
		t.Parallel()
		svc := NewRouteService(postgres.NewMemoryRepository())
		_, err := svc.CreateRoute(context.Background(), "short", domain.TerrainFlat, []Coordinate{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 0.001},
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientGPSPoints)
	})

	t.Run("computes cumulative distances in both directions", func(t *testing.T) {
		t.Parallel()
		repo := postgres.NewMemoryRepository()
		svc := NewRouteService(repo)

		coords := []Coordinate{
			{Latitude: 15.0, Longitude: 79.000},
			{Latitude: 15.0, Longitude: 79.010},
			{Latitude: 15.0, Longitude: 79.020},
			{Latitude: 15.0, Longitude: 79.030},
			{Latitude: 15.0, Longitude: 79.040},
		}
		route, err := svc.CreateRoute(context.Background(), "plains road", domain.TerrainRural, coords)
		require.NoError(t, err)
		require.Len(t, route.Points, 5)

		assert.Equal(t, 0.0, route.Points[0].DistanceFromStartKm)
		assert.Equal(t, 0.0, route.Points[4].DistanceToEndKm)

		for i := 1; i < len(route.Points); i++ {
			assert.Greater(t,
				route.Points[i].DistanceFromStartKm,
				route.Points[i-1].DistanceFromStartKm,
			)
			assert.Less(t,
				route.Points[i].DistanceToEndKm,
				route.Points[i-1].DistanceToEndKm,
			)
			assert.Equal(t, i, route.Points[i].SequenceOrder)
			assert.Equal(t, route.ID, route.Points[i].RouteID)
		}

		// Start-to-end and end-to-start distances agree at every point
		total := route.TotalDistanceKm()
		for _, p := range route.Points {
			assert.InDelta(t, total, p.DistanceFromStartKm+p.DistanceToEndKm, 0.02)
		}

		// Round trip through the repository keeps the points ordered
		stored, err := repo.GetRoute(context.Background(), route.ID)
		require.NoError(t, err)
		assert.Equal(t, route.Points, stored.Points)
	})
}
