package service

import (
	"math"

	"github.com/routesafe/backend/internal/domain"
	"github.com/routesafe/backend/pkg/geo"
)

// Safe-speed physics constants: maximum curve speed before exceeding
// friction limits, with a safety margin.
const (
	frictionCoefficient = 0.7
	gravityMS2          = 9.81
	safetyFactor        = 0.8
	msToKmh             = 3.6

	minSpeedKmh = 15.0
	maxSpeedKmh = 80.0

	minRiskScore = 1.0
	maxRiskScore = 10.0
	baseScore    = 3.0
)

// ScoredTurn is the scorer's output for one candidate
type ScoredTurn struct {
	RiskScore           float64
	Severity            domain.TurnSeverity
	RecommendedSpeedKmh float64
	Visibility          string
	RoadSurface         string
	HasGuardrails       bool
	HasWarningSigns     bool
	HasLighting         bool
	BankingAngle        float64
}

// RiskScorer combines turn geometry, terrain, safe-speed physics, and
// environmental context into a single 1-10 risk score
type RiskScorer struct{}

// NewRiskScorer creates a new risk scorer
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// Score rates a turn candidate. Severity is derived from the FINAL clamped
// score, never from intermediate values.
func (s *RiskScorer) Score(c TurnCandidate, terrain domain.TerrainType, env EnvContext) ScoredTurn {
	speed := s.SafeSpeedKmh(c.RadiusM, c.AngleDeg)

	score := baseScore
	score += angleBonus(c.AngleDeg)
	score += radiusBonus(c.RadiusM)
	score += terrainBonus(terrain)
	score += speedBonus(speed)
	score += env.AdditionalRisk
	score = geo.Clamp(score, minRiskScore, maxRiskScore)

	return ScoredTurn{
		RiskScore:           score,
		Severity:            domain.SeverityForScore(score),
		RecommendedSpeedKmh: speed,
		Visibility:          env.Visibility,
		RoadSurface:         env.RoadSurface,
		HasGuardrails:       env.HasGuardrails,
		HasWarningSigns:     env.HasWarningSigns,
		HasLighting:         env.HasLighting,
		BankingAngle:        env.BankingAngle,
	}
}

// SafeSpeedKmh computes the stopping-curve speed limit
// v = sqrt(μ·g·r·safetyFactor) reduced by turn sharpness, clamped to
// [15,80] km/h.
func (s *RiskScorer) SafeSpeedKmh(radiusM, angleDeg float64) float64 {
	v := math.Sqrt(frictionCoefficient*gravityMS2*radiusM*safetyFactor) * msToKmh
	v *= angleReduction(angleDeg)
	return geo.RoundTo(geo.Clamp(v, minSpeedKmh, maxSpeedKmh), 1)
}

func angleBonus(angleDeg float64) float64 {
	switch {
	case angleDeg > 135:
		return 4
	case angleDeg > 90:
		return 3
	case angleDeg > 60:
		return 2
	case angleDeg > 30:
		return 1
	default:
		return 0
	}
}

func radiusBonus(radiusM float64) float64 {
	switch {
	case radiusM < 75:
		return 3
	case radiusM < 150:
		return 2
	case radiusM < 250:
		return 1
	default:
		return 0
	}
}

func terrainBonus(terrain domain.TerrainType) float64 {
	switch terrain {
	case domain.TerrainHilly, domain.TerrainMountainous:
		return 1
	case domain.TerrainRural:
		return 0.5
	default:
		return 0
	}
}

func speedBonus(speedKmh float64) float64 {
	switch {
	case speedKmh <= 25:
		return 2
	case speedKmh <= 40:
		return 1
	default:
		return 0
	}
}

func angleReduction(angleDeg float64) float64 {
	switch {
	case angleDeg > 120:
		return 0.6
	case angleDeg > 90:
		return 0.7
	case angleDeg > 60:
		return 0.8
	case angleDeg > 30:
		return 0.9
	default:
		return 1.0
	}
}
