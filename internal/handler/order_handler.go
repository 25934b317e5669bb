package handler

import (
	"errors"
	"net/http"

	"restaurant-pos/internal/browse"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders requests: order history, newest first,
// filtered by "status" (default all), searched by "q" and paginated.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve orders", h.logger)
		return
	}

	query := r.URL.Query()
	status := query.Get("status")
	if status == "" {
		status = browse.StatusAll
	}

	orders = browse.FilterByStatus(orders, status)
	orders = browse.SearchOrders(orders, query.Get("q"))
	writeJSON(w, http.StatusOK, browse.Paginate(orders, queryPage(r), browse.HistoryPageSize))
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PlaceOrderRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		// an unknown item is a bad cart, not a missing resource
		if errors.Is(err, model.ErrMenuItemNotFound) {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, model.ErrMenuItemNotFound.Message, h.logger)
			return
		}
		writeServiceError(w, err, "failed to place order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ToggleStatus handles POST /api/orders/{id}/status requests.
func (h *OrderHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	status, err := h.service.ToggleOrderStatus(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to update order status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": status})
}

// TogglePayment handles POST /api/orders/{id}/payment requests.
func (h *OrderHandler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	status, err := h.service.TogglePaymentStatus(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to update payment status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "payment_status": status})
}

// Delete handles DELETE /api/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete order", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LookupPhone handles GET /api/orders/lookup/phone requests.
func (h *OrderHandler) LookupPhone(w http.ResponseWriter, r *http.Request) {
	addr, err := h.service.LookupAddressByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		writeServiceError(w, err, "failed to look up address", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, addr)
}

// LookupAddress handles GET /api/orders/lookup/address requests.
func (h *OrderHandler) LookupAddress(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	phone, err := h.service.LookupPhoneByAddress(r.Context(), query.Get("building"), query.Get("flat"))
	if err != nil {
		writeServiceError(w, err, "failed to look up phone", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"phone_no": phone})
}
