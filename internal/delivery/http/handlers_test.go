package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routesafe/backend/internal/domain"
	"github.com/routesafe/backend/internal/repository/postgres"
	"github.com/routesafe/backend/internal/service"
)

type noBlindSpots struct{}

func (noBlindSpots) AnalyzeAll(_ context.Context, _ string) (domain.BlindSpotReport, error) {
	return domain.BlindSpotReport{
		BlindSpots:      []domain.BlindSpot{},
		Recommendations: []string{},
	}, nil
}

func newTestApp() *fiber.App {
	return newTestAppWith(noBlindSpots{})
}

func newTestAppWith(blind service.BlindSpotAnalyzer) *fiber.App {
	repo := postgres.NewMemoryRepository()
	routeSvc := service.NewRouteService(repo)
	analysisSvc := service.NewAnalysisService(
		repo, repo,
		service.NewEnvironmentEstimator(service.FixedSampler{}),
		blind,
		service.AnalysisConfig{Timeout: 5 * time.Second},
	)

	app := fiber.New()
	SetupRoutes(app, routeSvc, analysisSvc, repo)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRouteLifecycle(t *testing.T) {
	app := newTestApp()

	// Create a route that runs east and then turns north
	resp := postJSON(t, app, "/api/v1/routes", map[string]any{
		"name":    "coastal bend",
		"terrain": "hilly",
		"points": []map[string]float64{
			{"lat": 0, "lon": 0},
			{"lat": 0, "lon": 0.0009},
			{"lat": 0, "lon": 0.0018},
			{"lat": 0.0009, "lon": 0.0018},
			{"lat": 0.0018, "lon": 0.0018},
			{"lat": 0.0027, "lon": 0.0018},
			{"lat": 0.0036, "lon": 0.0018},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	routeID := body["data"].(map[string]any)["id"].(string)
	require.NotEmpty(t, routeID)

	// Analyze it
	resp = postJSON(t, app, "/api/v1/routes/"+routeID+"/analysis", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	analysis := decodeBody(t, resp)
	assert.Equal(t, true, analysis["success"])
	data := analysis["data"].(map[string]any)
	assert.Equal(t, true, data["analysis_success"])
	assert.NotEmpty(t, data["sharp_turns"])
	assert.NotEmpty(t, data["recommendations"])

	// Query the persisted turns, risk-descending by default
	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/routes/"+routeID+"/turns", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	turns := decodeBody(t, resp)
	assert.NotZero(t, turns["count"])

	// Distance-ordered variant
	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/routes/"+routeID+"/turns?sort=distance", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

type fixedBlindSpots struct {
	report domain.BlindSpotReport
}

func (s fixedBlindSpots) AnalyzeAll(_ context.Context, routeID string) (domain.BlindSpotReport, error) {
	report := s.report
	for i := range report.BlindSpots {
		report.BlindSpots[i].RouteID = routeID
	}
	return report, nil
}

func TestBlindSpotsQueryableAfterAnalysis(t *testing.T) {
	app := newTestAppWith(fixedBlindSpots{report: domain.BlindSpotReport{
		TotalBlindSpots: 2,
		BlindSpots: []domain.BlindSpot{
			{SpotType: "crest", RiskScore: 8.2, SeverityLevel: "critical"},
			{SpotType: "vegetation", RiskScore: 4.1, SeverityLevel: "moderate"},
		},
	}})

	resp := postJSON(t, app, "/api/v1/routes", map[string]any{
		"name": "ghat section",
		"points": []map[string]float64{
			{"lat": 0, "lon": 0},
			{"lat": 0, "lon": 0.001},
			{"lat": 0, "lon": 0.002},
			{"lat": 0, "lon": 0.003},
			{"lat": 0, "lon": 0.004},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	routeID := decodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	// Before analysis the list is empty
	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/routes/"+routeID+"/blind-spots", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Zero(t, decodeBody(t, resp)["count"])

	resp = postJSON(t, app, "/api/v1/routes/"+routeID+"/analysis", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Analyzed spots are persisted and served, highest risk first
	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/routes/"+routeID+"/blind-spots", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.EqualValues(t, 2, body["count"])
	spots := body["data"].([]any)
	require.Len(t, spots, 2)
	first := spots[0].(map[string]any)
	assert.Equal(t, "crest", first["spot_type"])
	assert.Equal(t, routeID, first["route_id"])
}

func TestAnalyzeValidationStatuses(t *testing.T) {
	app := newTestApp()

	t.Run("unknown route maps to 404", func(t *testing.T) {
		resp := postJSON(t, app, "/api/v1/routes/does-not-exist/analysis", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("short route maps to 422", func(t *testing.T) {
		resp := postJSON(t, app, "/api/v1/routes", map[string]any{
			"name": "too short",
			"points": []map[string]float64{
				{"lat": 0, "lon": 0},
				{"lat": 0, "lon": 0.001},
			},
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
}
