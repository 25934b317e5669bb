package handler

import (
	"net/http"

	"restaurant-pos/internal/service"

	"github.com/rs/zerolog"
)

// SettingsRequest is the body of PUT /api/settings.
type SettingsRequest struct {
	TableCount int `json:"table_count"`
}

// SettingsHandler handles restaurant settings requests.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /api/settings requests.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve settings", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// Update handles PUT /api/settings requests.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	settings, err := h.service.Save(r.Context(), req.TableCount)
	if err != nil {
		writeServiceError(w, err, "failed to save settings", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}
