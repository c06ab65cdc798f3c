package http

import "salespulse/internal/services"

// DashboardServiceInterface is the read side of services.DashboardService.
type DashboardServiceInterface interface {
	Snapshot() (*services.Snapshot, error)
}
