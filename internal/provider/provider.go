// Package provider retrieves historical price bars from a market-data source.
package provider

import (
	"context"
	"errors"
	"time"

	"stockdash/pkg/contracts/domain"
)

// ErrUnavailable is returned when the upstream source has no data for the
// requested symbol and range, or reports an error for it. It is a per-symbol
// condition: other symbols in the same selection are unaffected.
var ErrUnavailable = errors.New("provider: no data available")

// Provider fetches a date-ascending series of daily price bars for one
// symbol over [start, end].
type Provider interface {
	FetchSeries(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error)
}
