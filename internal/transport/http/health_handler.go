package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"stockdash/internal/cache"
)

// HealthHandler serves liveness and runtime stats.
type HealthHandler struct {
	version string
	started time.Time
	cache   *cache.SeriesCache
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(version string, seriesCache *cache.SeriesCache) *HealthHandler {
	return &HealthHandler{
		version: version,
		started: time.Now(),
		cache:   seriesCache,
	}
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"uptime":    time.Since(h.started).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"cache":     h.cache.Stats(),
	})
}
