package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routesafe/backend/internal/domain"
)

// window builds a 5-point window from (lat, lon) pairs
func window(coords ...[2]float64) []domain.RoutePoint {
	points := make([]domain.RoutePoint, len(coords))
	for i, c := range coords {
		points[i] = domain.RoutePoint{
			Latitude:      c[0],
			Longitude:     c[1],
			SequenceOrder: i,
		}
	}
	return points
}

// eastThenNorth is a clean 90° left turn: two segments east, two north,
// equal spacing, chord roughly 0.28 km
func eastThenNorth() []domain.RoutePoint {
	return window(
		[2]float64{0, 0},
		[2]float64{0, 0.0009},
		[2]float64{0, 0.0018},
		[2]float64{0.0009, 0.0018},
		[2]float64{0.0018, 0.0018},
	)
}

func TestAnalyzeWindow(t *testing.T) {
	t.Parallel()
	analyzer := NewGeometryAnalyzer()

	t.Run("collinear points are straight with zero angle", func(t *testing.T) {
		t.Parallel()
		c, err := analyzer.AnalyzeWindow(window(
			[2]float64{10, 0},
			[2]float64{10, 0.001},
			[2]float64{10, 0.002},
			[2]float64{10, 0.003},
			[2]float64{10, 0.004},
		))
		require.NoError(t, err)
		assert.Equal(t, domain.TurnStraight, c.Direction)
		assert.InDelta(t, 0, c.AngleDeg, 1e-6)
		assert.Equal(t, 10000.0, c.RadiusM)
	})

	t.Run("90 degree left turn", func(t *testing.T) {
		t.Parallel()
		c, err := analyzer.AnalyzeWindow(eastThenNorth())
		require.NoError(t, err)
		assert.Equal(t, domain.TurnLeft, c.Direction)
		assert.InDelta(t, 90, c.AngleDeg, 0.5)
		// chord ≈ 283 m, r = chord / (2·sin 45°) ≈ 198 m
		assert.InDelta(t, 198, c.RadiusM, 15)
		assert.Equal(t, 2, c.Center.SequenceOrder)
	})

	t.Run("90 degree right turn", func(t *testing.T) {
		t.Parallel()
		c, err := analyzer.AnalyzeWindow(window(
			[2]float64{0, 0},
			[2]float64{0, 0.0009},
			[2]float64{0, 0.0018},
			[2]float64{-0.0009, 0.0018},
			[2]float64{-0.0018, 0.0018},
		))
		require.NoError(t, err)
		assert.Equal(t, domain.TurnRight, c.Direction)
		assert.InDelta(t, 90, c.AngleDeg, 0.5)
	})

	t.Run("hairpin direction above 150 degrees", func(t *testing.T) {
		t.Parallel()
		// east, then back west-northwest at 160° to the incoming heading
		c, err := analyzer.AnalyzeWindow(window(
			[2]float64{0, 0},
			[2]float64{0, 0.001},
			[2]float64{0, 0.002},
			[2]float64{0.00034, 0.00106},
			[2]float64{0.00068, 0.00012},
		))
		require.NoError(t, err)
		assert.Equal(t, domain.TurnHairpin, c.Direction)
		assert.Greater(t, c.AngleDeg, 150.0)
	})

	t.Run("bearing change just below the straight band is straight", func(t *testing.T) {
		t.Parallel()
		// outgoing heading deviates ~0.0052° from the incoming one, a unit
		// cross of 0.00009 — inside the 0.0001 band
		c, err := analyzer.AnalyzeWindow(window(
			[2]float64{0, 0},
			[2]float64{0, 0.001},
			[2]float64{0, 0.002},
			[2]float64{0.00000009, 0.003},
			[2]float64{0.00000018, 0.004},
		))
		require.NoError(t, err)
		assert.Equal(t, domain.TurnStraight, c.Direction)
	})

	t.Run("bearing change just above the straight band turns left", func(t *testing.T) {
		t.Parallel()
		// same shape with a unit cross of 0.00012, just past the band edge
		c, err := analyzer.AnalyzeWindow(window(
			[2]float64{0, 0},
			[2]float64{0, 0.001},
			[2]float64{0, 0.002},
			[2]float64{0.00000012, 0.003},
			[2]float64{0.00000024, 0.004},
		))
		require.NoError(t, err)
		assert.Equal(t, domain.TurnLeft, c.Direction)
		assert.Less(t, c.AngleDeg, 0.01)
	})

	t.Run("degenerate vector is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := analyzer.AnalyzeWindow(window(
			[2]float64{0, 0},
			[2]float64{0, 0},
			[2]float64{0, 0},
			[2]float64{0, 0.001},
			[2]float64{0, 0.002},
		))
		require.Error(t, err)
		var gerr *domain.GeometryError
		assert.ErrorAs(t, err, &gerr)
	})

	t.Run("wrong window size is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := analyzer.AnalyzeWindow(window(
			[2]float64{0, 0},
			[2]float64{0, 0.001},
			[2]float64{0, 0.002},
		))
		require.Error(t, err)
	})
}

func TestWindowConfidence(t *testing.T) {
	t.Parallel()
	analyzer := NewGeometryAnalyzer()

	t.Run("clean evenly spaced turn reaches the maximum", func(t *testing.T) {
		t.Parallel()
		c, err := analyzer.AnalyzeWindow(eastThenNorth())
		require.NoError(t, err)
		// 0.7 base, +0.1 density, +0.1 clean angle, +0.1 spacing
		assert.InDelta(t, 1.0, c.Confidence, 1e-9)
	})

	t.Run("straight run misses the clean-angle bonus", func(t *testing.T) {
		t.Parallel()
		c, err := analyzer.AnalyzeWindow(window(
			[2]float64{10, 0},
			[2]float64{10, 0.001},
			[2]float64{10, 0.002},
			[2]float64{10, 0.003},
			[2]float64{10, 0.004},
		))
		require.NoError(t, err)
		assert.InDelta(t, 0.9, c.Confidence, 1e-9)
	})

	t.Run("uneven spacing misses the consistency bonus", func(t *testing.T) {
		t.Parallel()
		c, err := analyzer.AnalyzeWindow(window(
			[2]float64{0, 0},
			[2]float64{0, 0.0002},
			[2]float64{0, 0.0022},
			[2]float64{0.0009, 0.0022},
			[2]float64{0.0030, 0.0022},
		))
		require.NoError(t, err)
		assert.InDelta(t, 0.9, c.Confidence, 1e-9)
	})

	t.Run("confidence stays within bounds", func(t *testing.T) {
		t.Parallel()
		c, err := analyzer.AnalyzeWindow(eastThenNorth())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.Confidence, 0.5)
		assert.LessOrEqual(t, c.Confidence, 1.0)
	})
}
