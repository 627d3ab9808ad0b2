package domain

import (
	"errors"
	"fmt"
)

// Fatal validation errors: these are the only failures that propagate to
// the caller of a route analysis as hard errors.
var (
	// ErrRouteNotFound means the requested route does not exist
	ErrRouteNotFound = errors.New("route not found")

	// ErrInsufficientGPSPoints means the route has fewer than the minimum
	// points a window scan requires; the route is left unchanged
	ErrInsufficientGPSPoints = errors.New("route has insufficient gps points")
)

// GeometryError marks a single candidate window whose geometry could not be
// analyzed. Recovered: the candidate is skipped, the scan continues.
type GeometryError struct {
	WindowIndex int
	Reason      string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("turn geometry: window %d: %s", e.WindowIndex, e.Reason)
}

// PersistenceError marks a failed hazard write. Recovered: logged and
// annotated on the result, the analysis still returns.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// BlindSpotError marks a failure of the external blind-spot subsystem.
// Recovered: the orchestrator substitutes a degraded empty report.
type BlindSpotError struct {
	Err error
}

func (e *BlindSpotError) Error() string {
	return fmt.Sprintf("blind spot subsystem: %v", e.Err)
}

func (e *BlindSpotError) Unwrap() error { return e.Err }
