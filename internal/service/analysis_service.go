package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/routesafe/backend/internal/domain"
)

// Candidate keep filter and scan bounds
const (
	keepMinRiskScore = 5.0
	keepMinAngleDeg  = 25.0

	DefaultAnalysisTimeout = 30 * time.Second
	DefaultMaxScanWindows  = 5000
)

// AnalysisConfig bounds a single analysis invocation
type AnalysisConfig struct {
	// Timeout is the deadline for one full-route analysis
	Timeout time.Duration

	// MaxScanWindows caps how many candidate windows one scan examines.
	// A capped scan is degraded, not failed.
	MaxScanWindows int
}

// AnalysisService orchestrates a full route analysis: turn scan and
// blind-spot analysis run concurrently, each with isolated error capture,
// and their outputs are aggregated into one result. Only route validation
// failures propagate as hard errors; everything else degrades into the
// returned result.
type AnalysisService struct {
	routes    domain.RouteRepository
	hazards   domain.HazardRepository
	analyzer  *GeometryAnalyzer
	estimator *EnvironmentEstimator
	scorer    *RiskScorer
	blindSvc  BlindSpotAnalyzer
	cfg       AnalysisConfig
}

// NewAnalysisService creates a new analysis orchestrator
func NewAnalysisService(
	routes domain.RouteRepository,
	hazards domain.HazardRepository,
	estimator *EnvironmentEstimator,
	blindSvc BlindSpotAnalyzer,
	cfg AnalysisConfig,
) *AnalysisService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAnalysisTimeout
	}
	if cfg.MaxScanWindows <= 0 {
		cfg.MaxScanWindows = DefaultMaxScanWindows
	}
	return &AnalysisService{
		routes:    routes,
		hazards:   hazards,
		analyzer:  NewGeometryAnalyzer(),
		estimator: estimator,
		scorer:    NewRiskScorer(),
		blindSvc:  blindSvc,
		cfg:       cfg,
	}
}

// AnalyzeRoute runs the full analysis pipeline for a route. The two fatal
// errors are ErrRouteNotFound and ErrInsufficientGPSPoints; any other
// failure is annotated on the result instead of returned.
func (s *AnalysisService) AnalyzeRoute(ctx context.Context, routeID string) (domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	// Validating
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if len(route.Points) < domain.MinRoutePoints {
		return domain.AnalysisResult{}, domain.ErrInsufficientGPSPoints
	}

	// ScanningTurns and AnalyzingBlindSpots are independent; run both and
	// join regardless of either's outcome.
	var (
		turns      []domain.SharpTurn
		scanCapped bool
		persistErr error
		spotsErr   error
		report     domain.BlindSpotReport
		wg         sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		turns, scanCapped, persistErr = s.scanTurns(ctx, route)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		r, err := s.blindSvc.AnalyzeAll(ctx, routeID)
		if err != nil {
			log.Printf("Blind spot analysis failed for route %s: %v", routeID, err)
			report = DegradedReport(err)
			return
		}
		if len(r.BlindSpots) > 0 {
			if err := s.hazards.SaveBlindSpots(ctx, routeID, r.BlindSpots); err != nil {
				spotsErr = &domain.PersistenceError{Op: "save blind spots", Err: err}
				log.Printf("Failed to persist blind spots for route %s: %v", routeID, spotsErr)
			}
		}
		report = r
	}()

	wg.Wait()

	// Aggregating
	result := domain.AnalysisResult{
		RouteID:         routeID,
		SharpTurns:      turns,
		BlindSpots:      report.BlindSpots,
		Summary:         summarize(turns, report.BlindSpots),
		Recommendations: GenerateRecommendations(turns, report.BlindSpots, report.Recommendations),
		AnalysisSuccess: true,
		AnalyzedAt:      time.Now(),
	}

	if report.Degraded {
		result.AnalysisSuccess = false
		result.SetSubsystemError("blind_spots", report.Error)
	}
	if scanCapped {
		result.AnalysisSuccess = false
		result.SetSubsystemError("turn_scan", fmt.Sprintf("scan truncated at %d windows", s.cfg.MaxScanWindows))
	}
	if err := errors.Join(persistErr, spotsErr); err != nil {
		result.AnalysisSuccess = false
		result.SetSubsystemError("persistence", err.Error())
	}

	return result, nil
}

// scanTurns slides a 5-point window across the interior points (the first
// and last two lack a full window), scores each candidate, and replaces the
// route's persisted turn set in one transactional batch. A failure on a
// single candidate is logged and skipped; only the final replace can fail,
// and that failure is returned for annotation, not propagated. The capped
// flag reports a scan truncated at MaxScanWindows.
func (s *AnalysisService) scanTurns(ctx context.Context, route domain.Route) ([]domain.SharpTurn, bool, error) {
	generation := uuid.NewString()
	now := time.Now()
	turns := make([]domain.SharpTurn, 0)

	capped := false
	windows := 0
	for i := 2; i < len(route.Points)-2; i++ {
		if windows >= s.cfg.MaxScanWindows {
			log.Printf("Turn scan capped at %d windows for route %s", windows, route.ID)
			capped = true
			break
		}
		windows++

		candidate, err := s.analyzer.AnalyzeWindow(route.Points[i-2 : i+3])
		if err != nil {
			var gerr *domain.GeometryError
			if errors.As(err, &gerr) {
				log.Printf("Skipping window %d on route %s: %v", gerr.WindowIndex, route.ID, err)
				continue
			}
			log.Printf("Skipping window at point %d on route %s: %v", i, route.ID, err)
			continue
		}

		env := s.estimator.Estimate(candidate.Center)
		scored := s.scorer.Score(candidate, route.Terrain, env)

		if scored.RiskScore < keepMinRiskScore && candidate.AngleDeg < keepMinAngleDeg {
			continue
		}

		turns = append(turns, domain.SharpTurn{
			ID:                  uuid.NewString(),
			RouteID:             route.ID,
			Latitude:            candidate.Center.Latitude,
			Longitude:           candidate.Center.Longitude,
			DistanceFromStartKm: candidate.Center.DistanceFromStartKm,
			TurnAngle:           candidate.AngleDeg,
			TurnDirection:       candidate.Direction,
			TurnRadiusM:         candidate.RadiusM,
			RecommendedSpeedKmh: scored.RecommendedSpeedKmh,
			RiskScore:           scored.RiskScore,
			TurnSeverity:        scored.Severity,
			Confidence:          candidate.Confidence,
			Visibility:          scored.Visibility,
			RoadSurface:         scored.RoadSurface,
			HasGuardrails:       scored.HasGuardrails,
			HasWarningSigns:     scored.HasWarningSigns,
			HasLighting:         scored.HasLighting,
			BankingAngle:        scored.BankingAngle,
			AnalysisMethod:      domain.MethodVectorGeometry,
			Generation:          generation,
			CreatedAt:           now,
		})
	}

	if err := s.hazards.ReplaceSharpTurns(ctx, route.ID, turns); err != nil {
		perr := &domain.PersistenceError{Op: "replace sharp turns", Err: err}
		log.Printf("Failed to persist turns for route %s: %v", route.ID, perr)
		return turns, capped, perr
	}

	return turns, capped, nil
}

// summarize builds the aggregate counts and the overall route risk level
func summarize(turns []domain.SharpTurn, spots []domain.BlindSpot) domain.AnalysisSummary {
	summary := domain.AnalysisSummary{
		TotalSharpTurns: len(turns),
		TotalBlindSpots: len(spots),
	}

	angles := make([]float64, 0, len(turns))
	for _, t := range turns {
		angles = append(angles, t.TurnAngle)
		if domain.IsCritical(t.RiskScore) {
			summary.CriticalTurns++
		}
		if t.RiskScore > summary.MaxRiskScore {
			summary.MaxRiskScore = t.RiskScore
		}
	}
	for _, b := range spots {
		if domain.IsCritical(b.RiskScore) {
			summary.CriticalBlindSpots++
		}
		if b.RiskScore > summary.MaxRiskScore {
			summary.MaxRiskScore = b.RiskScore
		}
	}

	if len(angles) > 0 {
		summary.AverageTurnAngle = stat.Mean(angles, nil)
	}

	summary.OverallRiskLevel = overallRiskLevel(summary)
	return summary
}

// overallRiskLevel maps aggregate counts to the route classification
func overallRiskLevel(s domain.AnalysisSummary) domain.RiskLevel {
	sum := s.TotalSharpTurns + s.CriticalBlindSpots
	switch {
	case s.CriticalBlindSpots > 3 || sum > 8:
		return domain.RiskCritical
	case s.CriticalBlindSpots > 1 || sum > 5:
		return domain.RiskHigh
	case s.TotalBlindSpots > 2 || s.TotalSharpTurns > 2:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
