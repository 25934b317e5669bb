package metrics

import (
	"time"

	"restaurant-pos/internal/model"
)

// Options control Compute.
type Options struct {
	Filter        Filter
	Location      *time.Location
	TopItemsLimit int
}

// Dashboard is every derived view over one filtered order list.
type Dashboard struct {
	Filter               Filter             `json:"filter"`
	OrderCount           int                `json:"order_count"`
	TotalRevenue         float64            `json:"total_revenue"`
	RevenueByMonth       map[string]float64 `json:"revenue_by_month"`
	MonthlyRevenue       []MonthlyRevenue   `json:"monthly_revenue"`
	TopItems             []ItemCount        `json:"top_items"`
	VegNonVeg            []Slice            `json:"veg_non_veg"`
	DineVsDelivery       TypeSplit          `json:"dine_vs_delivery"`
	OrderStatus          []StatusCount      `json:"order_status"`
	PaymentStatus        []StatusCount      `json:"payment_status"`
	OrderStatusByMonth   []MonthStatusRow   `json:"order_status_by_month"`
	PaymentStatusByMonth []MonthStatusRow   `json:"payment_status_by_month"`
}

// Compute filters orders and derives every dashboard view. Timestamps are
// moved into opts.Location before grouping by month; the input is not modified.
func Compute(orders []model.Order, opts Options) Dashboard {
	filtered := FilterOrders(orders, opts.Filter)

	if opts.Location != nil {
		for i := range filtered {
			filtered[i].Timestamp = filtered[i].Timestamp.In(opts.Location)
		}
	}

	byMonth := RevenueByMonth(filtered)

	return Dashboard{
		Filter:               opts.Filter,
		OrderCount:           len(filtered),
		TotalRevenue:         TotalRevenue(filtered),
		RevenueByMonth:       byMonth,
		MonthlyRevenue:       SortRevenue(byMonth),
		TopItems:             TopItems(filtered, opts.TopItemsLimit),
		VegNonVeg:            VegNonVegSplit(filtered),
		DineVsDelivery:       DineVsDeliverySplit(filtered),
		OrderStatus:          StatusCounts(filtered, FieldStatus),
		PaymentStatus:        StatusCounts(filtered, FieldPaymentStatus),
		OrderStatusByMonth:   StackedStatusByMonth(filtered, FieldStatus),
		PaymentStatusByMonth: StackedStatusByMonth(filtered, FieldPaymentStatus),
	}
}
