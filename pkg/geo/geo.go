package geo

import (
	"math"
)

// Vector is a 2-D direction in (Δlongitude, Δlatitude) space.
// Valid only over short windows where the planar approximation holds.
type Vector struct {
	DX float64 // Δlongitude
	DY float64 // Δlatitude
}

// IsZero reports whether the vector has no direction.
func (v Vector) IsZero() bool {
	return v.DX == 0 && v.DY == 0
}

// Magnitude returns the Euclidean length of the vector.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.DX*v.DX + v.DY*v.DY)
}

// Cross returns the 2-D cross product v × w.
// Negative means w turns right of v, positive left.
func (v Vector) Cross(w Vector) float64 {
	return v.DX*w.DY - v.DY*w.DX
}

// DistanceKm calculates the haversine distance between two points in
// kilometers, rounded to 2 decimal places.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth radius in km

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return RoundTo(R*c, 2)
}

// VectorAngleDeg returns the angle between two vectors in degrees [0,180].
// Returns 0 if either vector has zero magnitude. The cosine argument is
// clamped to [-1,1] so floating-point drift cannot push acos out of domain.
func VectorAngleDeg(v1, v2 Vector) float64 {
	m1 := v1.Magnitude()
	m2 := v2.Magnitude()
	if m1 == 0 || m2 == 0 {
		return 0
	}

	dot := v1.DX*v2.DX + v1.DY*v2.DY
	cos := Clamp(dot/(m1*m2), -1, 1)

	return math.Acos(cos) * 180 / math.Pi
}

// RadiusFromChord estimates the radius of a circular arc from its chord
// length and the turn angle: r = chord / (2·sin(angle/2)). The result is in
// meters, clamped to [30, 5000]. An angle of 0 or ≥180 yields 10000
// (effectively straight).
func RadiusFromChord(chordKm, angleDeg float64) float64 {
	if angleDeg <= 0 || angleDeg >= 180 {
		return 10000
	}

	angleRad := angleDeg * math.Pi / 180
	chordM := chordKm * 1000

	r := chordM / (2 * math.Sin(angleRad/2))
	return Clamp(r, 30, 5000)
}

// Clamp limits a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
