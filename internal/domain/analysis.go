package domain

import "time"

// RiskLevel is the overall route classification
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RecommendationPriority orders advisory blocks
type RecommendationPriority string

const (
	PriorityCritical RecommendationPriority = "CRITICAL"
	PriorityHigh     RecommendationPriority = "HIGH"
	PriorityMedium   RecommendationPriority = "MEDIUM"
	PriorityStandard RecommendationPriority = "STANDARD"
)

// Recommendation is a single human-readable advisory
type Recommendation struct {
	Priority RecommendationPriority `json:"priority"`
	Category string                 `json:"category"`
	Message  string                 `json:"message"`
}

// BlindSpotRiskAnalysis summarizes the external analyzer's scoring
type BlindSpotRiskAnalysis struct {
	Score         float64 `json:"score"`
	CriticalCount int     `json:"critical_count"`
}

// BlindSpotReport is the contract returned by the external blind-spot
// analyzer for a whole route
type BlindSpotReport struct {
	TotalBlindSpots int                   `json:"total_blind_spots"`
	BlindSpots      []BlindSpot           `json:"blind_spots"`
	RiskAnalysis    BlindSpotRiskAnalysis `json:"risk_analysis"`
	ByType          map[string]int        `json:"by_type"`
	Confidence      float64               `json:"confidence"`
	Recommendations []string              `json:"recommendations"`
	Degraded        bool                  `json:"degraded"`
	Error           string                `json:"error,omitempty"`
}

// AnalysisSummary aggregates counts across both hazard classes
type AnalysisSummary struct {
	TotalSharpTurns    int       `json:"total_sharp_turns"`
	TotalBlindSpots    int       `json:"total_blind_spots"`
	CriticalTurns      int       `json:"critical_turns"`
	CriticalBlindSpots int       `json:"critical_blind_spots"`
	AverageTurnAngle   float64   `json:"average_turn_angle"`
	MaxRiskScore       float64   `json:"max_risk_score"`
	OverallRiskLevel   RiskLevel `json:"overall_risk_level"`
}

// AnalysisResult is the per-invocation outcome of a full route analysis.
// It is assembled fresh on each call and never persisted. AnalysisSuccess
// is false when any subsystem degraded; SubsystemErrors carries the
// underlying messages so callers can tell "no hazards" from "detection
// partially failed".
type AnalysisResult struct {
	RouteID         string            `json:"route_id"`
	SharpTurns      []SharpTurn       `json:"sharp_turns"`
	BlindSpots      []BlindSpot       `json:"blind_spots"`
	Summary         AnalysisSummary   `json:"summary"`
	Recommendations []Recommendation  `json:"recommendations"`
	AnalysisSuccess bool              `json:"analysis_success"`
	SubsystemErrors map[string]string `json:"subsystem_errors,omitempty"`
	AnalyzedAt      time.Time         `json:"analyzed_at"`
}

// SetSubsystemError records a recovered subsystem failure on the result
func (r *AnalysisResult) SetSubsystemError(subsystem, message string) {
	if r.SubsystemErrors == nil {
		r.SubsystemErrors = make(map[string]string)
	}
	r.SubsystemErrors[subsystem] = message
}

// AnalysisResponse wraps an analysis result with metadata
type AnalysisResponse struct {
	Data    AnalysisResult `json:"data"`
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
}
