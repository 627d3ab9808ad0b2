package service

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/routesafe/backend/internal/domain"
)

// GenerateRecommendations synthesizes prioritized advisories from both
// hazard classes. Pure function; the output ordering is part of the
// contract: critical first, sharp-turn handling next, forwarded blind-spot
// advisories, then the standard protocol block which is always present.
func GenerateRecommendations(
	turns []domain.SharpTurn,
	blindSpots []domain.BlindSpot,
	forwarded []string,
) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, 4+len(forwarded))

	if critical := criticalHazardCount(turns, blindSpots); critical > 0 {
		recs = append(recs, domain.Recommendation{
			Priority: domain.PriorityCritical,
			Category: "critical_hazards",
			Message: fmt.Sprintf(
				"%d critical hazard(s) detected on this route. Travel in convoy, cap speed at the posted recommendation for each hazard, and brief all drivers before departure.",
				critical,
			),
		})
	}

	if len(turns) > 0 {
		recs = append(recs, domain.Recommendation{
			Priority: domain.PriorityHigh,
			Category: "sharp_turns",
			Message: fmt.Sprintf(
				"%d sharp turn(s) identified (mean turn angle %.1f°). Reduce speed before entering each turn, keep to the inside lane, and avoid overtaking on curves.",
				len(turns), meanTurnAngle(turns),
			),
		})
	}

	for _, msg := range forwarded {
		recs = append(recs, domain.Recommendation{
			Priority: domain.PriorityMedium,
			Category: "blind_spots",
			Message:  msg,
		})
	}

	recs = append(recs, domain.Recommendation{
		Priority: domain.PriorityStandard,
		Category: "route_safety",
		Message:  "Follow standard route safety protocol: headlights on, horn before blind curves, maintain safe following distance, and carry an emergency communication device.",
	})

	return recs
}

func criticalHazardCount(turns []domain.SharpTurn, spots []domain.BlindSpot) int {
	count := 0
	for _, t := range turns {
		if domain.IsCritical(t.RiskScore) {
			count++
		}
	}
	for _, s := range spots {
		if domain.IsCritical(s.RiskScore) {
			count++
		}
	}
	return count
}

func meanTurnAngle(turns []domain.SharpTurn) float64 {
	if len(turns) == 0 {
		return 0
	}
	angles := make([]float64, len(turns))
	for i, t := range turns {
		angles[i] = t.TurnAngle
	}
	return stat.Mean(angles, nil)
}
