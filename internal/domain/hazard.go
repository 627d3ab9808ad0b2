package domain

import "time"

// TurnDirection is the lateral direction of a detected turn
type TurnDirection string

const (
	TurnLeft     TurnDirection = "left"
	TurnRight    TurnDirection = "right"
	TurnHairpin  TurnDirection = "hairpin"
	TurnStraight TurnDirection = "straight"
)

// TurnSeverity is the ordinal hazard class of a turn, derived from its
// final risk score
type TurnSeverity string

const (
	SeverityGentle   TurnSeverity = "gentle"
	SeverityModerate TurnSeverity = "moderate"
	SeveritySharp    TurnSeverity = "sharp"
	SeverityHairpin  TurnSeverity = "hairpin"
)

// AnalysisMethod tags how a hazard record was produced. The set is closed:
// adding a value here is the only way to introduce a new method.
type AnalysisMethod string

const (
	MethodVectorGeometry AnalysisMethod = "vector_geometry"
	MethodImported       AnalysisMethod = "imported"
)

// IsValid reports whether m is one of the enumerated methods
func (m AnalysisMethod) IsValid() bool {
	return m == MethodVectorGeometry || m == MethodImported
}

// SharpTurn is a persisted turn hazard record
type SharpTurn struct {
	ID                  string         `json:"id"`
	RouteID             string         `json:"route_id"`
	Latitude            float64        `json:"lat"`
	Longitude           float64        `json:"lon"`
	DistanceFromStartKm float64        `json:"distance_from_start_km"`
	TurnAngle           float64        `json:"turn_angle"`
	TurnDirection       TurnDirection  `json:"turn_direction"`
	TurnRadiusM         float64        `json:"turn_radius_m"`
	RecommendedSpeedKmh float64        `json:"recommended_speed_kmh"`
	RiskScore           float64        `json:"risk_score"`
	TurnSeverity        TurnSeverity   `json:"turn_severity"`
	Confidence          float64        `json:"confidence"`
	Visibility          string         `json:"visibility"`
	RoadSurface         string         `json:"road_surface"`
	HasGuardrails       bool           `json:"has_guardrails"`
	HasWarningSigns     bool           `json:"has_warning_signs"`
	HasLighting         bool           `json:"has_lighting"`
	BankingAngle        float64        `json:"banking_angle"`
	AnalysisMethod      AnalysisMethod `json:"analysis_method"`
	Generation          string         `json:"generation"`
	CreatedAt           time.Time      `json:"created_at"`
}

// BlindSpot is a persisted sight-distance hazard record, produced by the
// external blind-spot analyzer and consumed here as aggregation input
type BlindSpot struct {
	ID                  string    `json:"id"`
	RouteID             string    `json:"route_id"`
	Latitude            float64   `json:"lat"`
	Longitude           float64   `json:"lon"`
	SpotType            string    `json:"spot_type"`
	VisibilityDistanceM float64   `json:"visibility_distance_m"`
	RiskScore           float64   `json:"risk_score"`
	SeverityLevel       string    `json:"severity_level"`
	CreatedAt           time.Time `json:"created_at"`
}

// criticalScore is the flat cutoff used for summary counting and
// recommendation triggers. Individual turn severity uses the finer ladder
// in SeverityForScore; the two gradings are intentional and documented.
const criticalScore = 8.0

// IsCritical reports whether a risk score crosses the critical cutoff
func IsCritical(score float64) bool {
	return score >= criticalScore
}

// SeverityForScore derives the ordinal severity class from a final risk
// score. Pure function, called explicitly before persistence — severity is
// never derived inside a save path.
func SeverityForScore(score float64) TurnSeverity {
	switch {
	case score >= 8.5:
		return SeverityHairpin
	case score >= 6.5:
		return SeveritySharp
	case score >= 4.5:
		return SeverityModerate
	default:
		return SeverityGentle
	}
}
