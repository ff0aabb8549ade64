package http

import (
	"context"

	"stockdash/internal/services"
	"stockdash/pkg/contracts/domain"
)

// DashboardServiceInterface is the service surface the handlers depend on.
// Kept as an interface so handler tests can substitute a mock.
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, sel services.Selection) (*services.Dashboard, error)
	CollectSeries(ctx context.Context, sel services.Selection) ([]string, map[string]domain.PriceSeries, error)
	AllowedSymbols() []string
	DefaultRange() string
}
