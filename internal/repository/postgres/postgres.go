package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routesafe/backend/internal/domain"
)

// Repository implements domain.RouteRepository and domain.HazardRepository
// on PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRoute persists a route and its ordered points in one transaction
func (r *Repository) SaveRoute(ctx context.Context, route domain.Route) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin save route: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO routes (id, name, terrain, created_at) VALUES ($1, $2, $3, $4)`,
		route.ID, route.Name, route.Terrain, route.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save route: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range route.Points {
		batch.Queue(`
			INSERT INTO route_points (
				route_id, latitude, longitude, sequence_order,
				distance_from_start_km, distance_to_end_km
			) VALUES ($1, $2, $3, $4, $5, $6)`,
			p.RouteID, p.Latitude, p.Longitude, p.SequenceOrder,
			p.DistanceFromStartKm, p.DistanceToEndKm,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to save route points: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit save route: %w", err)
	}
	return nil
}

// GetRoute loads a route with its points in travel order
func (r *Repository) GetRoute(ctx context.Context, routeID string) (domain.Route, error) {
	var route domain.Route
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, terrain, created_at FROM routes WHERE id = $1`,
		routeID,
	).Scan(&route.ID, &route.Name, &route.Terrain, &route.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Route{}, domain.ErrRouteNotFound
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("postgres: failed to query route: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT route_id, latitude, longitude, sequence_order,
			   distance_from_start_km, distance_to_end_km
		FROM route_points
		WHERE route_id = $1
		ORDER BY sequence_order ASC`,
		routeID,
	)
	if err != nil {
		return domain.Route{}, fmt.Errorf("postgres: failed to query route points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.RoutePoint
		err := rows.Scan(
			&p.RouteID, &p.Latitude, &p.Longitude, &p.SequenceOrder,
			&p.DistanceFromStartKm, &p.DistanceToEndKm,
		)
		if err != nil {
			return domain.Route{}, fmt.Errorf("postgres: failed to scan route point: %w", err)
		}
		route.Points = append(route.Points, p)
	}
	if err := rows.Err(); err != nil {
		return domain.Route{}, fmt.Errorf("postgres: route points rows: %w", err)
	}

	return route, nil
}

// ReplaceSharpTurns replaces the full turn set for a route in a single
// transaction: delete plus batched insert. Readers see the complete prior
// set or the complete new set, never a mix.
func (r *Repository) ReplaceSharpTurns(ctx context.Context, routeID string, turns []domain.SharpTurn) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin replace turns: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sharp_turns WHERE route_id = $1`, routeID); err != nil {
		return fmt.Errorf("postgres: failed to clear prior turns: %w", err)
	}

	batch := &pgx.Batch{}
	for _, t := range turns {
		batch.Queue(`
			INSERT INTO sharp_turns (
				id, route_id, latitude, longitude, distance_from_start_km,
				turn_angle, turn_direction, turn_radius_m, recommended_speed_kmh,
				risk_score, turn_severity, confidence, visibility, road_surface,
				has_guardrails, has_warning_signs, has_lighting, banking_angle,
				analysis_method, generation, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
					  $14, $15, $16, $17, $18, $19, $20, $21)`,
			t.ID, t.RouteID, t.Latitude, t.Longitude, t.DistanceFromStartKm,
			t.TurnAngle, t.TurnDirection, t.TurnRadiusM, t.RecommendedSpeedKmh,
			t.RiskScore, t.TurnSeverity, t.Confidence, t.Visibility, t.RoadSurface,
			t.HasGuardrails, t.HasWarningSigns, t.HasLighting, t.BankingAngle,
			t.AnalysisMethod, t.Generation, t.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to insert turns: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit replace turns: %w", err)
	}
	return nil
}

// ListSharpTurns retrieves persisted turns for a route in the requested order
func (r *Repository) ListSharpTurns(ctx context.Context, routeID string, q domain.TurnQuery) ([]domain.SharpTurn, error) {
	order := "risk_score DESC"
	if q.SortBy == domain.SortByDistanceAsc {
		order = "distance_from_start_km ASC"
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, route_id, latitude, longitude, distance_from_start_km,
			   turn_angle, turn_direction, turn_radius_m, recommended_speed_kmh,
			   risk_score, turn_severity, confidence, visibility, road_surface,
			   has_guardrails, has_warning_signs, has_lighting, banking_angle,
			   analysis_method, generation, created_at
		FROM sharp_turns
		WHERE route_id = $1
		ORDER BY %s`, order),
		routeID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query turns: %w", err)
	}
	defer rows.Close()

	var results []domain.SharpTurn
	for rows.Next() {
		var t domain.SharpTurn
		err := rows.Scan(
			&t.ID, &t.RouteID, &t.Latitude, &t.Longitude, &t.DistanceFromStartKm,
			&t.TurnAngle, &t.TurnDirection, &t.TurnRadiusM, &t.RecommendedSpeedKmh,
			&t.RiskScore, &t.TurnSeverity, &t.Confidence, &t.Visibility, &t.RoadSurface,
			&t.HasGuardrails, &t.HasWarningSigns, &t.HasLighting, &t.BankingAngle,
			&t.AnalysisMethod, &t.Generation, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan turn row: %w", err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// SaveBlindSpots persists blind spot records for a route
func (r *Repository) SaveBlindSpots(ctx context.Context, routeID string, spots []domain.BlindSpot) error {
	batch := &pgx.Batch{}
	for _, b := range spots {
		batch.Queue(`
			INSERT INTO blind_spots (
				id, route_id, latitude, longitude, spot_type,
				visibility_distance_m, risk_score, severity_level, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`,
			b.ID, routeID, b.Latitude, b.Longitude, b.SpotType,
			b.VisibilityDistanceM, b.RiskScore, b.SeverityLevel, b.CreatedAt,
		)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to save blind spots: %w", err)
	}
	return nil
}

// ListBlindSpots retrieves persisted blind spots for a route, highest risk first
func (r *Repository) ListBlindSpots(ctx context.Context, routeID string) ([]domain.BlindSpot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, route_id, latitude, longitude, spot_type,
			   visibility_distance_m, risk_score, severity_level, created_at
		FROM blind_spots
		WHERE route_id = $1
		ORDER BY risk_score DESC`,
		routeID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query blind spots: %w", err)
	}
	defer rows.Close()

	var results []domain.BlindSpot
	for rows.Next() {
		var b domain.BlindSpot
		err := rows.Scan(
			&b.ID, &b.RouteID, &b.Latitude, &b.Longitude, &b.SpotType,
			&b.VisibilityDistanceM, &b.RiskScore, &b.SeverityLevel, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan blind spot row: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
