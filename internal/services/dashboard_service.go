// Package services orchestrates the dashboard pipeline: validate the user
// selection, fetch each symbol's series through the TTL cache, compute
// statistics and assemble chart payloads into per-symbol panels.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"stockdash/internal/cache"
	"stockdash/internal/chart"
	"stockdash/internal/config"
	"stockdash/internal/infrastructure"
	"stockdash/internal/provider"
	"stockdash/internal/stats"
	"stockdash/pkg/contracts/domain"
)

// Service-level sentinel errors, mapped to API errors by the transport layer.
var (
	// ErrNoSelection is returned when no symbols were selected.
	ErrNoSelection = errors.New("services: no symbols selected")

	// ErrInvalidSelection is returned for a malformed selection.
	ErrInvalidSelection = errors.New("services: invalid selection")

	// ErrSymbolNotAllowed is returned for symbols outside the allow-list.
	ErrSymbolNotAllowed = errors.New("services: symbol not on the allow-list")

	// ErrInvalidRange is returned for unknown presets or bad custom windows.
	ErrInvalidRange = errors.New("services: invalid date range")

	// ErrNoExportData is returned when no selected symbol produced data.
	ErrNoExportData = errors.New("services: no data to export")
)

// recentRows is the size of the "recent data" table in each panel.
const recentRows = 10

// Selection is the validated user input for one dashboard evaluation.
type Selection struct {
	Symbols   []string   `validate:"required,min=1,dive,required,uppercase"`
	Range     string     `validate:"required"`
	Start     time.Time  `validate:"-"`
	End       time.Time  `validate:"-"`
	ChartType chart.Type `validate:"required"`
}

// Panel is the rendered output for one symbol. Exactly one of Statistics or
// Error is set: a failed symbol carries its message without blocking others.
type Panel struct {
	Symbol      string               `json:"symbol"`
	Statistics  *stats.Result        `json:"statistics,omitempty"`
	PriceChart  *chart.PricePayload  `json:"price_chart,omitempty"`
	VolumeChart *chart.VolumePayload `json:"volume_chart,omitempty"`
	RecentBars  []domain.PriceBar    `json:"recent_bars,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// Dashboard is the full response for one selection.
type Dashboard struct {
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	ChartType   chart.Type `json:"chart_type"`
	Panels      []Panel    `json:"panels"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// DashboardService evaluates selections against the data provider.
type DashboardService struct {
	provider provider.Provider
	cache    *cache.SeriesCache
	cfg      *config.Config
	validate *validator.Validate
	group    singleflight.Group
	logger   *slog.Logger
	now      func() time.Time
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(p provider.Provider, c *cache.SeriesCache, cfg *config.Config, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		provider: p,
		cache:    c,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "dashboard_service")),
		now:      time.Now,
	}
}

// Dashboard evaluates the selection into per-symbol panels. Provider
// failures and empty series are isolated per panel; only selection-level
// problems (no symbols, bad range, disallowed symbol) fail the whole call.
func (s *DashboardService) Dashboard(ctx context.Context, sel Selection) (*Dashboard, error) {
	ctx, span := infrastructure.Tracer().Start(ctx, "dashboard.evaluate")
	defer span.End()

	start, end, err := s.checkSelection(sel)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("symbols", len(sel.Symbols)),
		attribute.String("range", sel.Range),
	)

	dashboard := &Dashboard{
		Start:       start,
		End:         end,
		ChartType:   sel.ChartType,
		Panels:      make([]Panel, 0, len(sel.Symbols)),
		GeneratedAt: s.now(),
	}

	for _, symbol := range sel.Symbols {
		dashboard.Panels = append(dashboard.Panels, s.buildPanel(ctx, symbol, start, end, sel.ChartType))
	}

	return dashboard, nil
}

// buildPanel renders one symbol; errors stay inside the panel.
func (s *DashboardService) buildPanel(ctx context.Context, symbol string, start, end time.Time, chartType chart.Type) Panel {
	panel := Panel{Symbol: symbol}

	series, err := s.fetchCached(ctx, symbol, start, end)
	if err != nil {
		s.logger.WarnContext(ctx, "panel fetch failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		panel.Error = fmt.Sprintf("no data available for %s", symbol)
		return panel
	}

	result, err := stats.Compute(series)
	switch {
	case errors.Is(err, stats.ErrNoData):
		panel.Error = fmt.Sprintf("no data available for %s in the selected range", symbol)
		return panel
	case errors.Is(err, stats.ErrInvalidBaseline):
		panel.Error = fmt.Sprintf("cannot compute percentage change for %s: opening price is zero", symbol)
		return panel
	case err != nil:
		panel.Error = err.Error()
		return panel
	}

	price := chart.BuildPrice(symbol, series, chartType)
	volume := chart.BuildVolume(symbol, series)

	panel.Statistics = result
	panel.PriceChart = &price
	panel.VolumeChart = &volume
	panel.RecentBars = series.Tail(recentRows)
	return panel
}

// CollectSeries fetches the full series for every selected symbol for
// export. Failed symbols are skipped; the returned order preserves the
// selection order of the symbols that produced data.
func (s *DashboardService) CollectSeries(ctx context.Context, sel Selection) ([]string, map[string]domain.PriceSeries, error) {
	ctx, span := infrastructure.Tracer().Start(ctx, "dashboard.collect_series")
	defer span.End()

	start, end, err := s.checkSelection(sel)
	if err != nil {
		return nil, nil, err
	}

	order := make([]string, 0, len(sel.Symbols))
	data := make(map[string]domain.PriceSeries, len(sel.Symbols))

	for _, symbol := range sel.Symbols {
		series, err := s.fetchCached(ctx, symbol, start, end)
		if err != nil || series.IsEmpty() {
			s.logger.WarnContext(ctx, "skipping symbol in export",
				slog.String("symbol", symbol))
			continue
		}
		order = append(order, symbol)
		data[symbol] = series
	}

	if len(order) == 0 {
		return nil, nil, ErrNoExportData
	}
	return order, data, nil
}

// WarmCache refreshes the allow-list symbols for the default range so
// interactive loads hit a warm cache. Used by the background refresher.
func (s *DashboardService) WarmCache(ctx context.Context) {
	start, end, err := ResolveRange(s.cfg.Market.DefaultRange, time.Time{}, time.Time{}, s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "cache warm failed: bad default range",
			slog.String("range", s.cfg.Market.DefaultRange))
		return
	}

	for _, symbol := range s.cfg.Market.Symbols {
		key := cache.Key{Symbol: symbol, Start: start, End: end}
		series, err := s.provider.FetchSeries(ctx, symbol, start, end)
		if err != nil {
			s.logger.WarnContext(ctx, "cache warm fetch failed",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()))
			continue
		}
		s.cache.Set(key, series)
	}

	s.logger.InfoContext(ctx, "cache warmed",
		slog.Int("symbols", len(s.cfg.Market.Symbols)))
}

// AllowedSymbols returns the configured symbol allow-list.
func (s *DashboardService) AllowedSymbols() []string {
	return s.cfg.Market.Symbols
}

// DefaultRange returns the configured default range preset.
func (s *DashboardService) DefaultRange() string {
	return s.cfg.Market.DefaultRange
}

// checkSelection validates the selection and resolves its date window.
func (s *DashboardService) checkSelection(sel Selection) (time.Time, time.Time, error) {
	if len(sel.Symbols) == 0 {
		return time.Time{}, time.Time{}, ErrNoSelection
	}
	if err := s.validate.Struct(sel); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidSelection, err)
	}
	if !sel.ChartType.Valid() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown chart type %q", ErrInvalidSelection, sel.ChartType)
	}

	for _, symbol := range sel.Symbols {
		if !s.cfg.AllowsSymbol(symbol) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrSymbolNotAllowed, symbol)
		}
	}

	start, end, err := ResolveRange(sel.Range, sel.Start, sel.End, s.now())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidRange, err)
	}
	return start, end, nil
}

// fetchCached returns the series for (symbol, start, end), serving from the
// TTL cache when fresh. Concurrent identical requests are collapsed so the
// upstream sees at most one in-flight fetch per key.
func (s *DashboardService) fetchCached(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error) {
	key := cache.Key{Symbol: symbol, Start: start, End: end}

	if series, ok := s.cache.Get(key); ok {
		return series, nil
	}

	v, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		// Re-check: another caller may have populated the entry while we
		// waited on the singleflight lock.
		if series, ok := s.cache.Get(key); ok {
			return series, nil
		}

		series, err := s.provider.FetchSeries(ctx, symbol, start, end)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, series)
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.PriceSeries), nil
}
