package domain

import "time"

// TerrainType classifies the terrain a route crosses
type TerrainType string

const (
	TerrainFlat        TerrainType = "flat"
	TerrainRural       TerrainType = "rural"
	TerrainHilly       TerrainType = "hilly"
	TerrainMountainous TerrainType = "mountainous"
)

// RoutePoint is a single ordered GPS coordinate on a route.
// Points are immutable once the route is created; SequenceOrder is the
// travel order.
type RoutePoint struct {
	RouteID             string  `json:"route_id"`
	Latitude            float64 `json:"lat"`
	Longitude           float64 `json:"lon"`
	SequenceOrder       int     `json:"sequence_order"`
	DistanceFromStartKm float64 `json:"distance_from_start_km"`
	DistanceToEndKm     float64 `json:"distance_to_end_km"`
}

// Route is the ordered coordinate sequence under analysis
type Route struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Terrain   TerrainType  `json:"terrain"`
	Points    []RoutePoint `json:"points"`
	CreatedAt time.Time    `json:"created_at"`
}

// TotalDistanceKm returns the cumulative distance of the last point
func (r Route) TotalDistanceKm() float64 {
	if len(r.Points) == 0 {
		return 0
	}
	return r.Points[len(r.Points)-1].DistanceFromStartKm
}

// MinRoutePoints is the smallest route a 5-point window scan can cover
const MinRoutePoints = 5
