package service

import (
	"github.com/routesafe/backend/internal/domain"
)

// Repository interfaces are re-exported from domain for convenience
type (
	RouteRepository  = domain.RouteRepository
	HazardRepository = domain.HazardRepository
)
