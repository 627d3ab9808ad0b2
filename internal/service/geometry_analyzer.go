package service

import (
	"fmt"
	"math"

	"github.com/routesafe/backend/internal/domain"
	"github.com/routesafe/backend/pkg/geo"
)

// Detection thresholds for the 5-point window scan
const (
	windowSize      = 5
	straightEpsilon = 0.0001 // cross product magnitude below this = straight
	hairpinAngleDeg = 150.0

	baseConfidence   = 0.7
	confidenceBonus  = 0.1
	minConfidence    = 0.5
	maxConfidence    = 1.0
	cleanAngleMinDeg = 15.0
	cleanAngleMaxDeg = 165.0
	spacingTolerance = 0.5 // max deviation from mean inter-point distance
)

// TurnCandidate is the transient product of one window analysis. It lives
// for a single scan iteration and is never persisted.
type TurnCandidate struct {
	Center     domain.RoutePoint
	AngleDeg   float64
	Direction  domain.TurnDirection
	RadiusM    float64
	ChordKm    float64
	Confidence float64
}

// GeometryAnalyzer turns a 5-point coordinate window into a turn candidate.
//
// Vectors are built in (Δlongitude, Δlatitude) space — a planar
// approximation. It holds only because windows span a few hundred meters;
// do not reuse this at window sizes spanning large latitude changes.
type GeometryAnalyzer struct{}

// NewGeometryAnalyzer creates a new geometry analyzer
func NewGeometryAnalyzer() *GeometryAnalyzer {
	return &GeometryAnalyzer{}
}

// AnalyzeWindow analyzes exactly 5 consecutive route points: two preceding,
// the center, two following. The incoming vector runs window-start to
// center, the outgoing vector center to window-end. A degenerate vector or
// an angle outside [0,180] rejects the window with a GeometryError.
func (a *GeometryAnalyzer) AnalyzeWindow(points []domain.RoutePoint) (TurnCandidate, error) {
	if len(points) != windowSize {
		return TurnCandidate{}, &domain.GeometryError{
			WindowIndex: windowIndexOf(points),
			Reason:      fmt.Sprintf("expected %d points, got %d", windowSize, len(points)),
		}
	}

	start, center, end := points[0], points[2], points[4]

	incoming := geo.Vector{
		DX: center.Longitude - start.Longitude,
		DY: center.Latitude - start.Latitude,
	}
	outgoing := geo.Vector{
		DX: end.Longitude - center.Longitude,
		DY: end.Latitude - center.Latitude,
	}

	if incoming.IsZero() || outgoing.IsZero() {
		return TurnCandidate{}, &domain.GeometryError{
			WindowIndex: center.SequenceOrder,
			Reason:      "degenerate direction vector",
		}
	}

	angle := geo.VectorAngleDeg(incoming, outgoing)
	if math.IsNaN(angle) || angle < 0 || angle > 180 {
		return TurnCandidate{}, &domain.GeometryError{
			WindowIndex: center.SequenceOrder,
			Reason:      fmt.Sprintf("angle %.4f out of range", angle),
		}
	}

	chordKm := geo.DistanceKm(start.Latitude, start.Longitude, end.Latitude, end.Longitude)

	return TurnCandidate{
		Center:     center,
		AngleDeg:   angle,
		Direction:  turnDirection(incoming, outgoing, angle),
		RadiusM:    geo.RadiusFromChord(chordKm, angle),
		ChordKm:    chordKm,
		Confidence: windowConfidence(points, angle),
	}, nil
}

// turnDirection classifies by cross-product sign. The cross product is
// taken over unit vectors so the straight band is scale-independent:
// "straight" holds exactly when |cross| < ε.
func turnDirection(incoming, outgoing geo.Vector, angleDeg float64) domain.TurnDirection {
	cross := incoming.Cross(outgoing) / (incoming.Magnitude() * outgoing.Magnitude())
	if math.Abs(cross) < straightEpsilon {
		return domain.TurnStraight
	}
	if angleDeg >= hairpinAngleDeg {
		return domain.TurnHairpin
	}
	if cross < 0 {
		return domain.TurnRight
	}
	return domain.TurnLeft
}

// windowConfidence estimates how reliable the detected geometry is from
// sample density and spacing consistency.
func windowConfidence(points []domain.RoutePoint, angleDeg float64) float64 {
	confidence := baseConfidence

	if len(points) >= windowSize {
		confidence += confidenceBonus
	}
	if angleDeg >= cleanAngleMinDeg && angleDeg <= cleanAngleMaxDeg {
		confidence += confidenceBonus
	}
	if consistentSpacing(points) {
		confidence += confidenceBonus
	}

	return geo.Clamp(confidence, minConfidence, maxConfidence)
}

// consistentSpacing reports whether no inter-point distance deviates from
// the window average by more than the tolerance.
func consistentSpacing(points []domain.RoutePoint) bool {
	dists := make([]float64, 0, len(points)-1)
	var sum float64
	for i := 1; i < len(points); i++ {
		d := geo.DistanceKm(
			points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude,
		)
		dists = append(dists, d)
		sum += d
	}

	avg := sum / float64(len(dists))
	if avg == 0 {
		return false
	}
	for _, d := range dists {
		if math.Abs(d-avg) > avg*spacingTolerance {
			return false
		}
	}
	return true
}

func windowIndexOf(points []domain.RoutePoint) int {
	if len(points) == 0 {
		return -1
	}
	return points[len(points)/2].SequenceOrder
}
