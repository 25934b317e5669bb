package handler

import (
	"net/http"

	"restaurant-pos/internal/browse"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu-related HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// List handles GET /api/menu requests. "q" searches name, category and
// portion; "available=true" hides unavailable items.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		items []model.MenuItem
		err   error
	)
	if query.Get("available") == "true" {
		items, err = h.service.ListAvailable(r.Context())
	} else {
		items, err = h.service.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, err, "failed to retrieve menu", h.logger)
		return
	}

	items = browse.SearchMenu(items, query.Get("q"))
	writeJSON(w, http.StatusOK, browse.Paginate(items, queryPage(r), browse.MenuPageSize))
}

// Categories handles GET /api/menu/categories requests: orderable items
// grouped by category, a few categories per page.
func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAvailable(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve menu", h.logger)
		return
	}

	items = browse.SearchMenu(items, r.URL.Query().Get("q"))
	groups := browse.GroupByCategory(items)
	writeJSON(w, http.StatusOK, browse.Paginate(groups, queryPage(r), browse.CategoryPageSize))
}

// Create handles POST /api/menu requests.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.MenuItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	req.ID = nil

	item, err := h.service.AddOrUpdate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to save menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/menu/{id} requests.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.MenuItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	req.ID = &id

	item, err := h.service.AddOrUpdate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to save menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Toggle handles POST /api/menu/{id}/toggle requests.
func (h *MenuHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	item, err := h.service.ToggleAvailability(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to toggle availability", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/menu/{id} requests.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete menu item", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
