package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/chart"
	apierrors "stockdash/internal/errors"
	"stockdash/internal/exporter"
	"stockdash/internal/services"
	"stockdash/internal/stats"
	"stockdash/pkg/contracts/domain"
)

// mockService implements DashboardServiceInterface for handler tests.
type mockService struct {
	dashboard     *services.Dashboard
	dashboardErr  error
	order         []string
	data          map[string]domain.PriceSeries
	collectErr    error
	lastSelection services.Selection
}

func (m *mockService) Dashboard(ctx context.Context, sel services.Selection) (*services.Dashboard, error) {
	m.lastSelection = sel
	return m.dashboard, m.dashboardErr
}

func (m *mockService) CollectSeries(ctx context.Context, sel services.Selection) ([]string, map[string]domain.PriceSeries, error) {
	m.lastSelection = sel
	return m.order, m.data, m.collectErr
}

func (m *mockService) AllowedSymbols() []string {
	return []string{"AAPL", "MSFT"}
}

func (m *mockService) DefaultRange() string {
	return services.Range3Months
}

func newTestHandler(svc DashboardServiceInterface) *DashboardHandler {
	logger := slog.Default()
	return NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger))
}

func doRequest(t *testing.T, h *DashboardHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestGetSymbols(t *testing.T) {
	rec := doRequest(t, newTestHandler(&mockService{}), "/symbols")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"AAPL", "MSFT"}, body["symbols"])
	assert.Equal(t, "3mo", body["default_range"])
	assert.Len(t, body["ranges"], 6)
	assert.Len(t, body["chart_types"], 4)
	assert.Equal(t, []interface{}{"csv", "xlsx"}, body["export_formats"])
}

func TestGetDashboard(t *testing.T) {
	svc := &mockService{
		dashboard: &services.Dashboard{
			ChartType: chart.Line,
			Panels: []services.Panel{
				{Symbol: "AAPL", Statistics: &stats.Result{CurrentPrice: 110}},
			},
		},
	}

	rec := doRequest(t, newTestHandler(svc), "/dashboard?symbols=aapl,%20msft&range=1mo&chart=line")

	require.Equal(t, http.StatusOK, rec.Code)

	// Query symbols are trimmed and upper-cased before the service sees them
	assert.Equal(t, []string{"AAPL", "MSFT"}, svc.lastSelection.Symbols)
	assert.Equal(t, "1mo", svc.lastSelection.Range)
	assert.Equal(t, chart.Line, svc.lastSelection.ChartType)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
}

func TestGetDashboard_Defaults(t *testing.T) {
	svc := &mockService{dashboard: &services.Dashboard{}}

	rec := doRequest(t, newTestHandler(svc), "/dashboard?symbols=AAPL")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.Range3Months, svc.lastSelection.Range)
	assert.Equal(t, chart.Candlestick, svc.lastSelection.ChartType)
}

func TestGetDashboard_NoSelection(t *testing.T) {
	svc := &mockService{dashboardErr: services.ErrNoSelection}

	rec := doRequest(t, newTestHandler(svc), "/dashboard")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apierrors.TypeValidation, body["type"])
	assert.Equal(t, "NO_SELECTION", body["error_code"])
}

func TestGetDashboard_BadDates(t *testing.T) {
	svc := &mockService{dashboard: &services.Dashboard{}}

	rec := doRequest(t, newTestHandler(svc), "/dashboard?symbols=AAPL&range=custom&start=15-03-2025")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_CSV(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	svc := &mockService{
		order: []string{"AAPL"},
		data: map[string]domain.PriceSeries{
			"AAPL": {{Date: d, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}},
		},
	}
	h := newTestHandler(svc)
	h.now = func() time.Time { return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC) }

	rec := doRequest(t, h, "/export?symbols=AAPL&format=csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="stock_data_20250315.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Date,Open,High,Low,Close,Volume,Symbol")
	assert.Contains(t, rec.Body.String(), "2025-03-10,1,2,0.5,1.5,10,AAPL")
}

func TestExport_XLSX(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	svc := &mockService{
		order: []string{"AAPL"},
		data: map[string]domain.PriceSeries{
			"AAPL": {{Date: d, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}},
		},
	}

	rec := doRequest(t, newTestHandler(svc), "/export?symbols=AAPL&format=xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestExport_BadFormat(t *testing.T) {
	rec := doRequest(t, newTestHandler(&mockService{}), "/export?symbols=AAPL&format=pdf")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_NoData(t *testing.T) {
	svc := &mockService{collectErr: services.ErrNoExportData}

	rec := doRequest(t, newTestHandler(svc), "/export?symbols=AAPL&format=csv")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
