package handler

import (
	"context"
	"net/http"
	"time"

	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/poller"
	"restaurant-pos/internal/service"

	"github.com/rs/zerolog"
)

// SalesSource serves the periodically refreshed sales total.
type SalesSource interface {
	Snapshot() poller.Snapshot[float64]
	Refresh(ctx context.Context) poller.Snapshot[float64]
}

// SalesResponse is the body of GET /api/sales/total.
type SalesResponse struct {
	Total     float64   `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
	Stale     bool      `json:"stale"`
}

// MetricsHandler serves the sales dashboard and the running sales total.
type MetricsHandler struct {
	dashboards service.DashboardService
	sales      SalesSource
	loc        *time.Location
	logger     zerolog.Logger
}

// NewMetricsHandler creates a new metrics handler. Date-only query values are
// read in loc.
func NewMetricsHandler(dashboards service.DashboardService, sales SalesSource, loc *time.Location, logger zerolog.Logger) *MetricsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &MetricsHandler{
		dashboards: dashboards,
		sales:      sales,
		loc:        loc,
		logger:     logger.With().Str("handler", "metrics").Logger(),
	}
}

// Dashboard handles GET /api/metrics/dashboard requests.
func (h *MetricsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r, h.loc)
	if err != nil {
		writeServiceError(w, err, "", h.logger)
		return
	}

	d, err := h.dashboards.Dashboard(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "failed to compute dashboard", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// SalesTotal handles GET /api/sales/total requests. The value comes from the
// background poller; before its first fetch it is loaded on demand.
func (h *MetricsHandler) SalesTotal(w http.ResponseWriter, r *http.Request) {
	snap := h.sales.Snapshot()
	if snap.UpdatedAt.IsZero() {
		snap = h.sales.Refresh(r.Context())
	}
	if snap.UpdatedAt.IsZero() {
		if snap.Err != nil {
			writeServiceError(w, snap.Err, "failed to load sales total", h.logger)
			return
		}
		writeServiceError(w, model.ErrNotFound, "", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SalesResponse{
		Total:     snap.Value,
		UpdatedAt: snap.UpdatedAt,
		Stale:     snap.Err != nil,
	})
}

// ParseFilter reads "status", "from" and "to" from the query string.
func ParseFilter(r *http.Request, loc *time.Location) (metrics.Filter, error) {
	query := r.URL.Query()
	return metrics.ParseFilter(query.Get("status"), query.Get("from"), query.Get("to"), loc)
}
