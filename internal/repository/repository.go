package repository

import (
	"context"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
)

// MenuRepository defines data access for the menu table.
type MenuRepository interface {
	// List retrieves every menu item in creation order.
	List(ctx context.Context) ([]model.MenuItem, error)

	// ListAvailable retrieves only items that can be ordered.
	ListAvailable(ctx context.Context) ([]model.MenuItem, error)

	// GetByID retrieves a single item. Returns nil, nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// GetByIDs retrieves the distinct items among ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error)

	// Upsert inserts the item or replaces the row with the same id.
	Upsert(ctx context.Context, item *model.MenuItem) error

	// SetAvailability updates the available flag of one item.
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error

	// Delete removes one item permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines data access for the orders table.
type OrderRepository interface {
	// Insert stores a new order row.
	Insert(ctx context.Context, order *model.Order) error

	// List retrieves every order, newest first.
	List(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves one order. Returns nil, nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// Update applies a status and/or payment status patch to one order.
	Update(ctx context.Context, id uuid.UUID, patch model.OrderPatch) error

	// Delete removes one order permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	// LatestDeliveryByPhone returns the most recent delivery order for phone,
	// or nil, nil when there is none.
	LatestDeliveryByPhone(ctx context.Context, phone string) (*model.Order, error)

	// LatestDeliveryByAddress returns the most recent delivery order for the
	// building/flat pair, or nil, nil when there is none.
	LatestDeliveryByAddress(ctx context.Context, building, flat string) (*model.Order, error)
}

// SettingsRepository defines data access for the singleton settings row.
type SettingsRepository interface {
	// Get returns the settings row, or nil, nil when it was never saved.
	Get(ctx context.Context) (*model.Settings, error)

	// Upsert writes the settings row keyed by id.
	Upsert(ctx context.Context, settings model.Settings) error
}

// ProfileRepository defines data access for the profiles table.
type ProfileRepository interface {
	// GetByID returns the profile of a user, or nil, nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)

	// Upsert writes the role of a user.
	Upsert(ctx context.Context, profile model.Profile) error
}

// UserRepository defines data access for local identities.
type UserRepository interface {
	// Create inserts a user. Returns model.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns the user with email, or nil, nil when missing.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
