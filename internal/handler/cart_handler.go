package handler

import (
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/service"
	"restaurant-pos/internal/terminal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Terminals hands out the order-entry terminal of a session.
type Terminals interface {
	Get(sessionID string) *terminal.Terminal
}

// CartHandler handles the in-progress order of the signed-in user.
type CartHandler struct {
	terminals Terminals
	menu      service.MenuService
	logger    zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(terminals Terminals, menu service.MenuService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		terminals: terminals,
		menu:      menu,
		logger:    logger.With().Str("handler", "cart").Logger(),
	}
}

// FulfillmentRequest updates the fulfillment details being entered. Absent
// fields are left as they are.
type FulfillmentRequest struct {
	Type       *model.OrderType `json:"type,omitempty"`
	TableNo    *int             `json:"table_no,omitempty"`
	PhoneNo    *string          `json:"phone_no,omitempty"`
	BuildingNo *string          `json:"building_no,omitempty"`
	FlatNo     *string          `json:"flat_no,omitempty"`
}

// ToggleResponse reports the cart after an item was toggled.
type ToggleResponse struct {
	InCart bool           `json:"in_cart"`
	Cart   terminal.State `json:"cart"`
}

func (h *CartHandler) terminal(w http.ResponseWriter, r *http.Request) (*terminal.Terminal, bool) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeServiceError(w, model.ErrUnauthenticated, "", h.logger)
		return nil, false
	}
	return h.terminals.Get(s.ID), true
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, t.Snapshot())
}

// ToggleItem handles POST /api/cart/items/{id} requests. An item already in
// the cart is removed; otherwise it is added if it can be ordered.
func (h *CartHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	items, err := h.menu.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve menu", h.logger)
		return
	}

	var item *model.MenuItem
	for i := range items {
		if items[i].ID == id {
			item = &items[i]
			break
		}
	}
	if item == nil {
		writeServiceError(w, model.ErrMenuItemNotFound, "", h.logger)
		return
	}
	if !item.Available && !inCart(t.Snapshot(), id) {
		writeServiceError(w, model.ErrItemUnavailable, "", h.logger)
		return
	}

	in := t.ToggleItem(*item)
	writeJSON(w, http.StatusOK, ToggleResponse{InCart: in, Cart: t.Snapshot()})
}

func inCart(state terminal.State, id uuid.UUID) bool {
	for _, c := range state.Items {
		if c.ID == id {
			return true
		}
	}
	return false
}

// UpdateFulfillment handles PUT /api/cart/fulfillment requests. A phone
// alone fills in the last delivery address, and an address alone fills in
// the last phone; both together are taken as given.
func (h *CartHandler) UpdateFulfillment(w http.ResponseWriter, r *http.Request) {
	var req FulfillmentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	if req.Type != nil {
		if err := t.SetType(*req.Type); err != nil {
			writeServiceError(w, err, "", h.logger)
			return
		}
	}
	if req.TableNo != nil {
		t.SetTable(*req.TableNo)
	}

	current := t.Snapshot().Fulfillment
	building, flat := current.BuildingNo, current.FlatNo
	if req.BuildingNo != nil {
		building = *req.BuildingNo
	}
	if req.FlatNo != nil {
		flat = *req.FlatNo
	}
	hasAddress := req.BuildingNo != nil || req.FlatNo != nil

	switch {
	case req.PhoneNo != nil && hasAddress:
		t.SetDelivery(*req.PhoneNo, building, flat)
	case req.PhoneNo != nil:
		t.SetPhone(r.Context(), *req.PhoneNo)
	case hasAddress:
		t.SetAddress(r.Context(), building, flat)
	}

	writeJSON(w, http.StatusOK, t.Snapshot())
}

// Checkout handles POST /api/cart/checkout requests.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	order, err := t.Checkout(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to place order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
