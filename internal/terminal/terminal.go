// Package terminal keeps the in-progress order of each signed-in operator:
// the cart and the fulfillment details being typed in. State is owned by a
// Terminal and read through immutable snapshots.
package terminal

import (
	"context"
	"sync"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartItem is one selected menu item.
type CartItem struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Price    float64       `json:"price"`
	Category string        `json:"category"`
	Portion  model.Portion `json:"portion"`
}

// State is a point-in-time copy of a terminal.
type State struct {
	Items       []CartItem        `json:"items"`
	Fulfillment model.Fulfillment `json:"fulfillment"`
	Total       float64           `json:"total"`
}

// Terminal is the order-entry state of one operator.
type Terminal struct {
	orders service.OrderService
	logger zerolog.Logger

	mu          sync.Mutex
	items       []CartItem
	fulfillment model.Fulfillment
}

// New creates an empty terminal taking dine-in orders.
func New(orders service.OrderService, logger zerolog.Logger) *Terminal {
	return &Terminal{
		orders:      orders,
		logger:      logger,
		fulfillment: model.Fulfillment{Type: model.OrderTypeDineIn},
	}
}

// ToggleItem adds item to the cart, or removes it when already present.
// It reports whether the item is in the cart afterwards.
func (t *Terminal) ToggleItem(item model.MenuItem) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, c := range t.items {
		if c.ID == item.ID {
			t.items = append(t.items[:i:i], t.items[i+1:]...)
			return false
		}
	}

	t.items = append(t.items, CartItem{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
		Portion:  item.Portion,
	})
	return true
}

// SetType switches between dine-in and delivery. Entered details are kept.
func (t *Terminal) SetType(orderType model.OrderType) error {
	if orderType != model.OrderTypeDineIn && orderType != model.OrderTypeDelivery {
		return model.ErrInvalidOrderType
	}

	t.mu.Lock()
	t.fulfillment.Type = orderType
	t.mu.Unlock()
	return nil
}

// SetTable selects the dine-in table.
func (t *Terminal) SetTable(table int) {
	t.mu.Lock()
	t.fulfillment.TableNo = &table
	t.mu.Unlock()
}

// SetPhone records the delivery phone. Once it has enough digits the
// building and flat of the last delivery to that number are filled in.
func (t *Terminal) SetPhone(ctx context.Context, phone string) {
	t.mu.Lock()
	t.fulfillment.PhoneNo = phone
	t.mu.Unlock()

	addr, err := t.orders.LookupAddressByPhone(ctx, phone)
	if err != nil {
		if !model.IsNotFound(err) {
			t.logger.Warn().Err(err).Msg("address lookup failed")
		}
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fulfillment.PhoneNo != phone {
		return
	}
	t.fulfillment.BuildingNo = addr.BuildingNo
	t.fulfillment.FlatNo = addr.FlatNo
}

// SetAddress records the delivery building and flat. When both are set the
// phone of the last delivery there is filled in.
func (t *Terminal) SetAddress(ctx context.Context, building, flat string) {
	t.mu.Lock()
	t.fulfillment.BuildingNo = building
	t.fulfillment.FlatNo = flat
	t.mu.Unlock()

	phone, err := t.orders.LookupPhoneByAddress(ctx, building, flat)
	if err != nil {
		if !model.IsNotFound(err) {
			t.logger.Warn().Err(err).Msg("phone lookup failed")
		}
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fulfillment.BuildingNo != building || t.fulfillment.FlatNo != flat {
		return
	}
	t.fulfillment.PhoneNo = phone
}

// SetDelivery records all delivery details at once, without lookups.
func (t *Terminal) SetDelivery(phone, building, flat string) {
	t.mu.Lock()
	t.fulfillment.PhoneNo = phone
	t.fulfillment.BuildingNo = building
	t.fulfillment.FlatNo = flat
	t.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (t *Terminal) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Terminal) snapshotLocked() State {
	items := make([]CartItem, len(t.items))
	copy(items, t.items)

	f := t.fulfillment
	if f.TableNo != nil {
		table := *f.TableNo
		f.TableNo = &table
	}

	var total float64
	for _, item := range items {
		total += item.Price
	}
	return State{Items: items, Fulfillment: f, Total: total}
}

// Checkout places the order for the current cart. The cart and fulfillment
// details are cleared only when the order was stored; the order type stays.
func (t *Terminal) Checkout(ctx context.Context) (*model.Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]uuid.UUID, len(t.items))
	for i, item := range t.items {
		ids[i] = item.ID
	}

	order, err := t.orders.PlaceOrder(ctx, &model.PlaceOrderRequest{
		ItemIDs:     ids,
		Fulfillment: t.fulfillment,
	})
	if err != nil {
		return nil, err
	}

	t.items = nil
	t.fulfillment = model.Fulfillment{Type: t.fulfillment.Type}
	return order, nil
}
