package service

import (
	"context"

	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/model"

	"github.com/google/uuid"
)

// MenuService defines operations for the menu catalog.
type MenuService interface {
	// List retrieves every menu item.
	List(ctx context.Context) ([]model.MenuItem, error)

	// ListAvailable retrieves the items that can be ordered.
	ListAvailable(ctx context.Context) ([]model.MenuItem, error)

	// AddOrUpdate upserts an item keyed by its id. A missing id creates a new item.
	AddOrUpdate(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error)

	// ToggleAvailability flips the available flag and persists it immediately.
	ToggleAvailability(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// Remove deletes an item permanently.
	Remove(ctx context.Context, id uuid.UUID) error
}

// OrderService defines the order lifecycle.
type OrderService interface {
	// PlaceOrder validates the cart and fulfillment and inserts a new order.
	PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error)

	// ListOrders retrieves every order, newest first.
	ListOrders(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves one order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ToggleOrderStatus flips the order status and returns the stored value.
	ToggleOrderStatus(ctx context.Context, id uuid.UUID) (model.OrderStatus, error)

	// TogglePaymentStatus flips the payment status and returns the stored value.
	TogglePaymentStatus(ctx context.Context, id uuid.UUID) (model.PaymentStatus, error)

	// DeleteOrder removes an order permanently, unless deletion is disabled.
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	// LookupAddressByPhone returns the address of the latest delivery to phone.
	LookupAddressByPhone(ctx context.Context, phone string) (*model.DeliveryAddress, error)

	// LookupPhoneByAddress returns the phone of the latest delivery to building/flat.
	LookupPhoneByAddress(ctx context.Context, building, flat string) (string, error)

	// TotalSales sums the totals of every order.
	TotalSales(ctx context.Context) (float64, error)
}

// SettingsService defines operations on the restaurant settings.
type SettingsService interface {
	// Get returns the settings, falling back to the default table count.
	Get(ctx context.Context) (model.Settings, error)

	// Save stores a new table count.
	Save(ctx context.Context, tableCount int) (model.Settings, error)
}

// DashboardService computes sales analytics over the stored orders.
type DashboardService interface {
	// Dashboard fetches all orders and derives every metric for filter.
	Dashboard(ctx context.Context, filter metrics.Filter) (*metrics.Dashboard, error)
}
