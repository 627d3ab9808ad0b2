package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/routesafe/backend/internal/domain"
)

// BlindSpotAnalyzer is the contract of the external sight-distance
// subsystem consumed by the orchestrator
type BlindSpotAnalyzer interface {
	// AnalyzeAll runs blind-spot detection for the whole route
	AnalyzeAll(ctx context.Context, routeID string) (domain.BlindSpotReport, error)
}

// BlindSpotBridge calls the external blind-spot analysis service over HTTP
type BlindSpotBridge struct {
	serviceURL string
	httpClient *http.Client
}

// NewBlindSpotBridge creates a new bridge to the blind-spot service
func NewBlindSpotBridge(serviceURL string) *BlindSpotBridge {
	return &BlindSpotBridge{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AnalyzeAll requests a full-route blind-spot analysis. All failures come
// back as BlindSpotError; the orchestrator substitutes a degraded report
// rather than failing the invocation.
func (b *BlindSpotBridge) AnalyzeAll(ctx context.Context, routeID string) (domain.BlindSpotReport, error) {
	url := fmt.Sprintf("%s/api/v1/routes/%s/blind-spots/analyze", b.serviceURL, routeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return domain.BlindSpotReport{}, &domain.BlindSpotError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return domain.BlindSpotReport{}, &domain.BlindSpotError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.BlindSpotReport{}, &domain.BlindSpotError{
			Err: fmt.Errorf("analyzer returned status %d", resp.StatusCode),
		}
	}

	var report domain.BlindSpotReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return domain.BlindSpotReport{}, &domain.BlindSpotError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return report, nil
}

// DegradedReport is the empty substitute used when the blind-spot
// subsystem fails; the annotation carries the underlying message
func DegradedReport(err error) domain.BlindSpotReport {
	return domain.BlindSpotReport{
		BlindSpots:      []domain.BlindSpot{},
		ByType:          map[string]int{},
		Recommendations: []string{},
		Degraded:        true,
		Error:           err.Error(),
	}
}
