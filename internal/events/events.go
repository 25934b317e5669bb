// Package events publishes order lifecycle notifications. Publishing is
// best-effort: callers log failures and carry on, since the order row is
// already committed when an event is sent.
package events

import (
	"context"
	"time"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
)

// Type names an order event. It doubles as the routing key.
type Type string

const (
	OrderPlaced         Type = "order.placed"
	OrderStatusChanged  Type = "order.status_changed"
	OrderPaymentChanged Type = "order.payment_changed"
	OrderDeleted        Type = "order.deleted"
)

// Event is the message body sent for one committed order mutation.
type Event struct {
	Type          Type                 `json:"type"`
	OrderID       uuid.UUID            `json:"order_id"`
	Order         *model.Order         `json:"order,omitempty"`
	Status        *model.OrderStatus   `json:"status,omitempty"`
	PaymentStatus *model.PaymentStatus `json:"payment_status,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// Publisher sends order events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Placed builds the event for a newly inserted order.
func Placed(order *model.Order) Event {
	return Event{Type: OrderPlaced, OrderID: order.ID, Order: order, OccurredAt: time.Now().UTC()}
}

// StatusChanged builds the event for an order status flip.
func StatusChanged(id uuid.UUID, status model.OrderStatus) Event {
	return Event{Type: OrderStatusChanged, OrderID: id, Status: &status, OccurredAt: time.Now().UTC()}
}

// PaymentChanged builds the event for a payment status flip.
func PaymentChanged(id uuid.UUID, status model.PaymentStatus) Event {
	return Event{Type: OrderPaymentChanged, OrderID: id, PaymentStatus: &status, OccurredAt: time.Now().UTC()}
}

// Deleted builds the event for a removed order.
func Deleted(id uuid.UUID) Event {
	return Event{Type: OrderDeleted, OrderID: id, OccurredAt: time.Now().UTC()}
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
