package service

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/routesafe/backend/internal/domain"
	"github.com/routesafe/backend/pkg/geo"
)

// EnvContext carries the environmental attributes of a route location
type EnvContext struct {
	Zone            string  // "urban" or "rural"
	Visibility      string  // "good", "moderate", "limited"
	RoadSurface     string  // "paved", "gravel"
	HasGuardrails   bool
	HasWarningSigns bool
	HasLighting     bool
	BankingAngle    float64 // degrees
	AdditionalRisk  float64
}

// Sampler resolves attribute odds for which no ground truth is available.
// Injecting it keeps the estimator deterministic under test: the default
// implementation is a pure function of the location, so re-analyzing an
// unchanged route yields an identical hazard set.
type Sampler interface {
	// Bool reports whether the attribute holds for the point, given the
	// probability it would hold in that zone.
	Bool(point domain.RoutePoint, attribute string, odds float64) bool

	// Fraction returns a stable value in [0,1) for the point and attribute
	Fraction(point domain.RoutePoint, attribute string) float64
}

// FixedSampler is the deterministic default: FNV-1a over the coordinate
// and attribute key.
type FixedSampler struct{}

// Bool derives a stable boolean from the point and attribute
func (s FixedSampler) Bool(point domain.RoutePoint, attribute string, odds float64) bool {
	return s.Fraction(point, attribute) < odds
}

// Fraction derives a stable value in [0,1)
func (FixedSampler) Fraction(point domain.RoutePoint, attribute string) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.6f:%.6f:%s", point.Latitude, point.Longitude, attribute)
	return float64(h.Sum64()%10000) / 10000
}

// RandomSampler draws from a seeded source. Used for simulation runs; not
// for anything that must be reproducible across invocations.
type RandomSampler struct {
	rng *rand.Rand
}

// NewRandomSampler creates a sampler seeded explicitly
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSampler) Bool(_ domain.RoutePoint, _ string, odds float64) bool {
	return s.rng.Float64() < odds
}

func (s *RandomSampler) Fraction(_ domain.RoutePoint, _ string) float64 {
	return s.rng.Float64()
}

// cityCentroid marks an urban center; points within urbanRadiusKm of one
// are classified urban.
type cityCentroid struct {
	lat, lon float64
	name     string
}

const urbanRadiusKm = 15.0

// Major city centers for the service area
var cityCentroids = []cityCentroid{
	{17.6868, 83.2185, "Visakhapatnam"},
	{16.5062, 80.6480, "Vijayawada"},
	{17.3850, 78.4867, "Hyderabad"},
	{13.0827, 80.2707, "Chennai"},
	{12.9716, 77.5946, "Bengaluru"},
	{16.3067, 80.4365, "Guntur"},
}

// EnvironmentEstimator classifies a route point as urban or rural and
// assigns visibility and infrastructure attributes
type EnvironmentEstimator struct {
	sampler Sampler
}

// NewEnvironmentEstimator creates an estimator using the given sampler.
// Pass FixedSampler{} for deterministic analysis.
func NewEnvironmentEstimator(sampler Sampler) *EnvironmentEstimator {
	return &EnvironmentEstimator{sampler: sampler}
}

// Estimate classifies the point and synthesizes its environmental context
func (e *EnvironmentEstimator) Estimate(point domain.RoutePoint) EnvContext {
	if e.isUrban(point) {
		return e.urbanContext(point)
	}
	return e.ruralContext(point)
}

// isUrban reports whether the point lies within the urban radius of any
// known city center
func (e *EnvironmentEstimator) isUrban(point domain.RoutePoint) bool {
	for _, c := range cityCentroids {
		if geo.DistanceKm(point.Latitude, point.Longitude, c.lat, c.lon) <= urbanRadiusKm {
			return true
		}
	}
	return false
}

// urbanContext: maintained infrastructure, good odds of lighting and signage
func (e *EnvironmentEstimator) urbanContext(point domain.RoutePoint) EnvContext {
	return EnvContext{
		Zone:            "urban",
		Visibility:      "good",
		RoadSurface:     "paved",
		HasGuardrails:   e.sampler.Bool(point, "guardrails", 0.6),
		HasWarningSigns: e.sampler.Bool(point, "warning_signs", 0.7),
		HasLighting:     e.sampler.Bool(point, "lighting", 0.8),
		BankingAngle:    geo.RoundTo(e.sampler.Fraction(point, "banking")*2, 1),
		AdditionalRisk:  0,
	}
}

// ruralContext: sparse infrastructure, possible limited visibility, and a
// flat additional risk point
func (e *EnvironmentEstimator) ruralContext(point domain.RoutePoint) EnvContext {
	ctx := EnvContext{
		Zone:            "rural",
		Visibility:      "moderate",
		RoadSurface:     "paved",
		HasGuardrails:   e.sampler.Bool(point, "guardrails", 0.25),
		HasWarningSigns: e.sampler.Bool(point, "warning_signs", 0.4),
		HasLighting:     e.sampler.Bool(point, "lighting", 0.1),
		BankingAngle:    geo.RoundTo(e.sampler.Fraction(point, "banking")*5, 1),
		AdditionalRisk:  1,
	}

	if e.sampler.Bool(point, "visibility", 0.3) {
		ctx.Visibility = "limited"
	}
	if !e.sampler.Bool(point, "surface", 0.6) {
		ctx.RoadSurface = "gravel"
	}

	return ctx
}
