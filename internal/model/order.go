package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderType is how an order is fulfilled.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeDelivery OrderType = "delivery"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusCompleted OrderStatus = "completed"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderStatusReceived, OrderStatusCompleted}

// Toggle flips between received and completed. A missing or unknown status
// moves to received, so applying Toggle twice is the identity only for the
// enumerated values.
func (s OrderStatus) Toggle() OrderStatus {
	if s == OrderStatusReceived {
		return OrderStatusCompleted
	}
	return OrderStatusReceived
}

// PaymentStatus records whether an order has been paid.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusDone   PaymentStatus = "done"
)

// PaymentStatuses lists every payment status.
var PaymentStatuses = []PaymentStatus{PaymentStatusUnpaid, PaymentStatusDone}

// Toggle flips between unpaid and done. A missing or unknown payment status
// counts as unpaid and moves to done.
func (s PaymentStatus) Toggle() PaymentStatus {
	if s == PaymentStatusDone {
		return PaymentStatusUnpaid
	}
	return PaymentStatusDone
}

// LineItem is one entry of an order. Quantity is always one; repeated
// selections produce repeated lines.
type LineItem struct {
	MenuItemID string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Category   string  `json:"category,omitempty"`
	Portion    Portion `json:"portion,omitempty"`
	Veg        *bool   `json:"veg,omitempty"`
}

// IsVeg treats a missing flag as non-veg.
func (l LineItem) IsVeg() bool {
	return l.Veg != nil && *l.Veg
}

// Order represents a placed order.
type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	Items         []LineItem    `json:"items" db:"items"`
	Type          OrderType     `json:"type" db:"type"`
	TableNo       *int          `json:"table_no" db:"table_no"`
	PhoneNo       *string       `json:"phone_no" db:"phone_no"`
	BuildingNo    *string       `json:"building_no" db:"building_no"`
	FlatNo        *string       `json:"flat_no" db:"flat_no"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	Timestamp     time.Time     `json:"timestamp" db:"timestamp"`
}

// Total is the sum of the line prices.
func (o Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price
	}
	return total
}

// Fulfillment carries the dine-in or delivery details of a new order.
type Fulfillment struct {
	Type       OrderType `json:"type"`
	TableNo    *int      `json:"table_no,omitempty"`
	PhoneNo    string    `json:"phone_no,omitempty"`
	BuildingNo string    `json:"building_no,omitempty"`
	FlatNo     string    `json:"flat_no,omitempty"`
}

// PlaceOrderRequest represents the request payload for placing an order.
type PlaceOrderRequest struct {
	ItemIDs     []uuid.UUID `json:"item_ids"`
	Fulfillment Fulfillment `json:"fulfillment"`
}

// DeliveryAddress is the building/flat pair of a delivery order.
type DeliveryAddress struct {
	BuildingNo string `json:"building_no"`
	FlatNo     string `json:"flat_no"`
}

// OrderPatch is a single-column update on an order row.
type OrderPatch struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
}
