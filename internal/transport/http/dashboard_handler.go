// Package http contains the chi HTTP handlers for the dashboard API.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"stockdash/internal/chart"
	apierrors "stockdash/internal/errors"
	"stockdash/internal/exporter"
	"stockdash/internal/services"
)

// DashboardHandler serves the dashboard, sidebar options and export routes.
type DashboardHandler struct {
	service      DashboardServiceInterface
	csvExporter  *exporter.CSVExporter
	xlsxExporter *exporter.ExcelExporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		csvExporter:  exporter.NewCSVExporter(logger),
		xlsxExporter: exporter.NewExcelExporter(logger),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// Routes returns the dashboard API routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Group(func(r chi.Router) {
		r.Get("/symbols", h.GetSymbols)
		r.Get("/dashboard", h.GetDashboard)
	})
	r.Get("/export", h.Export)

	return r
}

// GetSymbols handles GET /api/symbols: the sidebar option lists.
func (h *DashboardHandler) GetSymbols(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"symbols":        h.service.AllowedSymbols(),
		"ranges":         services.RangePresets(),
		"default_range":  h.service.DefaultRange(),
		"chart_types":    chart.Types(),
		"export_formats": []exporter.Format{exporter.FormatCSV, exporter.FormatXLSX},
	})
}

// GetDashboard handles GET /api/dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   dashboard,
	})
}

// Export handles GET /api/export: streams the CSV or xlsx download.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := exporter.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = exporter.FormatCSV
	}
	if !format.Valid() {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", fmt.Sprintf("unsupported export format %q", format)))
		return
	}

	order, data, err := h.service.CollectSeries(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	filename := exporter.Filename(format, h.now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == exporter.FormatXLSX {
		err = h.xlsxExporter.WriteWorkbook(w, order, data)
	} else {
		err = h.csvExporter.WriteCombined(w, order, data)
	}
	if err != nil {
		// Headers are gone by now; just log the failure.
		h.logger.ErrorContext(r.Context(), "export stream failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}

// parseSelection reads the selection from query parameters.
func (h *DashboardHandler) parseSelection(r *http.Request) (services.Selection, error) {
	q := r.URL.Query()

	var symbols []string
	for _, raw := range strings.Split(q.Get("symbols"), ",") {
		if s := strings.ToUpper(strings.TrimSpace(raw)); s != "" {
			symbols = append(symbols, s)
		}
	}

	rangeName := q.Get("range")
	if rangeName == "" {
		rangeName = h.service.DefaultRange()
	}

	chartType := chart.Type(q.Get("chart"))
	if chartType == "" {
		chartType = chart.Candlestick
	}

	sel := services.Selection{
		Symbols:   symbols,
		Range:     rangeName,
		ChartType: chartType,
	}

	const dateLayout = "2006-01-02"
	if v := q.Get("start"); v != "" {
		start, err := time.Parse(dateLayout, v)
		if err != nil {
			return services.Selection{}, apierrors.ErrValidation("start", "expected YYYY-MM-DD")
		}
		sel.Start = start
	}
	if v := q.Get("end"); v != "" {
		end, err := time.Parse(dateLayout, v)
		if err != nil {
			return services.Selection{}, apierrors.ErrValidation("end", "expected YYYY-MM-DD")
		}
		sel.End = end
	}

	return sel, nil
}

// mapServiceError converts service sentinels to API errors.
func (h *DashboardHandler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoSelection):
		return apierrors.ErrNoSelection
	case errors.Is(err, services.ErrSymbolNotAllowed):
		return apierrors.NewWithDetails(http.StatusBadRequest, "SYMBOL_NOT_ALLOWED",
			"One or more symbols are not on the allow-list", err.Error())
	case errors.Is(err, services.ErrInvalidSelection), errors.Is(err, services.ErrInvalidRange):
		return apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
			"Request validation failed", err.Error())
	case errors.Is(err, services.ErrNoExportData):
		return apierrors.NotFoundError("export data")
	default:
		return err
	}
}
