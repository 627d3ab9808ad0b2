package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	t.Run("zero for identical points", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, DistanceKm(17.6868, 83.2185, 17.6868, 83.2185))
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		t.Parallel()
		// πR/180 with R=6371 is 111.19 km
		assert.Equal(t, 111.19, DistanceKm(0, 0, 1, 0))
	})

	t.Run("symmetric", func(t *testing.T) {
		t.Parallel()
		d1 := DistanceKm(17.6868, 83.2185, 16.5062, 80.6480)
		d2 := DistanceKm(16.5062, 80.6480, 17.6868, 83.2185)
		assert.Equal(t, d1, d2)
		assert.InDelta(t, 303, d1, 5) // Visakhapatnam to Vijayawada
	})

	t.Run("rounded to two decimals", func(t *testing.T) {
		t.Parallel()
		d := DistanceKm(12.9716, 77.5946, 13.0827, 80.2707)
		assert.Equal(t, RoundTo(d, 2), d)
	})
}

func TestVectorAngleDeg(t *testing.T) {
	t.Parallel()

	t.Run("perpendicular", func(t *testing.T) {
		t.Parallel()
		angle := VectorAngleDeg(Vector{DX: 1, DY: 0}, Vector{DX: 0, DY: 1})
		assert.InDelta(t, 90, angle, 1e-9)
	})

	t.Run("parallel", func(t *testing.T) {
		t.Parallel()
		angle := VectorAngleDeg(Vector{DX: 1, DY: 0}, Vector{DX: 2, DY: 0})
		assert.InDelta(t, 0, angle, 1e-9)
	})

	t.Run("opposite", func(t *testing.T) {
		t.Parallel()
		angle := VectorAngleDeg(Vector{DX: 1, DY: 0}, Vector{DX: -1, DY: 0})
		assert.InDelta(t, 180, angle, 1e-9)
	})

	t.Run("zero vector yields zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, VectorAngleDeg(Vector{}, Vector{DX: 1, DY: 1}))
		assert.Equal(t, 0.0, VectorAngleDeg(Vector{DX: 1, DY: 1}, Vector{}))
	})

	t.Run("cosine clamped against drift", func(t *testing.T) {
		t.Parallel()
		// Colinear vectors whose dot/magnitude product can drift past 1
		angle := VectorAngleDeg(Vector{DX: 0.1, DY: 0.3}, Vector{DX: 0.2, DY: 0.6})
		assert.False(t, math.IsNaN(angle), "angle must not be NaN")
		assert.InDelta(t, 0, angle, 1e-6)
	})
}

func TestRadiusFromChord(t *testing.T) {
	t.Parallel()

	t.Run("right angle geometry", func(t *testing.T) {
		t.Parallel()
		// r = 200 / (2·sin 45°)
		assert.InDelta(t, 141.42, RadiusFromChord(0.2, 90), 0.1)
	})

	t.Run("straight window sentinel", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 10000.0, RadiusFromChord(0.2, 0))
		assert.Equal(t, 10000.0, RadiusFromChord(0.2, 180))
		assert.Equal(t, 10000.0, RadiusFromChord(0.2, -5))
	})

	t.Run("floor at 30 meters", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 30.0, RadiusFromChord(0.01, 150))
	})

	t.Run("ceiling at 5000 meters", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 5000.0, RadiusFromChord(20, 10))
	})
}

func TestVector(t *testing.T) {
	t.Parallel()

	t.Run("cross sign", func(t *testing.T) {
		t.Parallel()
		east := Vector{DX: 1, DY: 0}
		north := Vector{DX: 0, DY: 1}
		assert.Positive(t, east.Cross(north)) // left turn
		assert.Negative(t, north.Cross(east)) // right turn
		assert.Zero(t, east.Cross(east))
	})

	t.Run("magnitude and zero", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 5, Vector{DX: 3, DY: 4}.Magnitude(), 1e-12)
		assert.True(t, Vector{}.IsZero())
		assert.False(t, Vector{DX: 0, DY: 0.001}.IsZero())
	})
}

func TestClamp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, Clamp(3, 5, 10))
	assert.Equal(t, 10.0, Clamp(12, 5, 10))
	assert.Equal(t, 7.0, Clamp(7, 5, 10))
}

func TestRoundTo(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 3.14, RoundTo(3.14159, 2))
	assert.Equal(t, 3.142, RoundTo(3.14159, 3))
	assert.Equal(t, 3.0, RoundTo(3.14159, 0))
}
