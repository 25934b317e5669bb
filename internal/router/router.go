package router

import (
	"net/http"

	"restaurant-pos/internal/handler"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/model"

	"github.com/rs/zerolog"
)

// Public paths are served without a session token.
const (
	HealthPath = "/health"
	SignInPath = "/api/auth/signin"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth     *handler.AuthHandler
	Menu     *handler.MenuHandler
	Order    *handler.OrderHandler
	Cart     *handler.CartHandler
	Metrics  *handler.MetricsHandler
	Settings *handler.SettingsHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, sessions middleware.SessionResolver, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.RequireRole(model.RoleAdmin, logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("POST "+SignInPath, h.Auth.SignIn)
	mux.HandleFunc("POST /api/auth/signout", h.Auth.SignOut)
	mux.HandleFunc("GET /api/auth/session", h.Auth.Session)
	mux.Handle("POST /api/staff", admin(http.HandlerFunc(h.Auth.CreateStaff)))

	mux.HandleFunc("GET /api/menu", h.Menu.List)
	mux.HandleFunc("GET /api/menu/categories", h.Menu.Categories)
	mux.HandleFunc("POST /api/menu", h.Menu.Create)
	mux.HandleFunc("PUT /api/menu/{id}", h.Menu.Update)
	mux.HandleFunc("POST /api/menu/{id}/toggle", h.Menu.Toggle)
	mux.HandleFunc("DELETE /api/menu/{id}", h.Menu.Delete)

	mux.HandleFunc("GET /api/orders", h.Order.List)
	mux.HandleFunc("POST /api/orders", h.Order.Create)
	mux.HandleFunc("GET /api/orders/lookup/phone", h.Order.LookupPhone)
	mux.HandleFunc("GET /api/orders/lookup/address", h.Order.LookupAddress)
	mux.HandleFunc("GET /api/orders/{id}", h.Order.GetByID)
	mux.HandleFunc("POST /api/orders/{id}/status", h.Order.ToggleStatus)
	mux.HandleFunc("POST /api/orders/{id}/payment", h.Order.TogglePayment)
	mux.HandleFunc("DELETE /api/orders/{id}", h.Order.Delete)

	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("POST /api/cart/items/{id}", h.Cart.ToggleItem)
	mux.HandleFunc("PUT /api/cart/fulfillment", h.Cart.UpdateFulfillment)
	mux.HandleFunc("POST /api/cart/checkout", h.Cart.Checkout)

	mux.HandleFunc("GET /api/metrics/dashboard", h.Metrics.Dashboard)
	mux.HandleFunc("GET /api/sales/total", h.Metrics.SalesTotal)

	mux.HandleFunc("GET /api/settings", h.Settings.Get)
	mux.Handle("PUT /api/settings", admin(http.HandlerFunc(h.Settings.Update)))

	// Apply middleware in order: Recovery -> Logging -> CORS -> RequireSession
	var handler http.Handler = mux
	handler = middleware.RequireSession(sessions, logger, HealthPath, SignInPath)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
