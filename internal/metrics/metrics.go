// Package metrics derives sales analytics from an already-fetched order list.
//
// Every function is pure: the same orders and parameters always produce the
// same output and nothing is cached between calls. Aggregation is a linear
// scan over orders and their lines, which is fine for single-restaurant volume.
package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"restaurant-pos/internal/model"
)

// Unknown buckets orders whose status field is missing.
const Unknown = "Unknown"

// DefaultTopItemsLimit is the number of items TopItems returns when no limit is given.
const DefaultTopItemsLimit = 10

// Field selects which status column a status aggregation reads.
type Field string

const (
	FieldStatus        Field = "status"
	FieldPaymentStatus Field = "payment_status"
)

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldStatus, FieldPaymentStatus:
		return Field(s), nil
	}
	return "", model.ErrInvalidField
}

// enumerated returns the known values of the field in display order.
func (f Field) enumerated() []string {
	switch f {
	case FieldStatus:
		out := make([]string, len(model.OrderStatuses))
		for i, s := range model.OrderStatuses {
			out[i] = string(s)
		}
		return out
	case FieldPaymentStatus:
		out := make([]string, len(model.PaymentStatuses))
		for i, s := range model.PaymentStatuses {
			out[i] = string(s)
		}
		return out
	}
	return nil
}

func (f Field) value(o model.Order) string {
	var v string
	switch f {
	case FieldStatus:
		v = string(o.Status)
	case FieldPaymentStatus:
		v = string(o.PaymentStatus)
	}
	if v == "" {
		return Unknown
	}
	return v
}

// Filter narrows an order list. Zero values match everything; all set
// conditions must hold.
type Filter struct {
	Status string     `json:"status,omitempty"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
}

// FilterOrders returns the orders matching every condition of f. Both ends of
// the date range are inclusive.
func FilterOrders(orders []model.Order, f Filter) []model.Order {
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.From != nil && o.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && o.Timestamp.After(*f.To) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// MonthLabel formats t as "M/YYYY" in t's own location.
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Year())
}

// TotalRevenue sums the totals of all orders.
func TotalRevenue(orders []model.Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.Total()
	}
	return total
}

// RevenueByMonth sums order totals per "M/YYYY" month. The result has map
// semantics; use SortRevenue for chronological output.
func RevenueByMonth(orders []model.Order) map[string]float64 {
	byMonth := make(map[string]float64)
	for _, o := range orders {
		byMonth[MonthLabel(o.Timestamp)] += o.Total()
	}
	return byMonth
}

// MonthlyRevenue is one month of RevenueByMonth.
type MonthlyRevenue struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// SortRevenue orders a RevenueByMonth result chronologically.
func SortRevenue(byMonth map[string]float64) []MonthlyRevenue {
	out := make([]MonthlyRevenue, 0, len(byMonth))
	for label, revenue := range byMonth {
		out = append(out, MonthlyRevenue{Label: label, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		return monthLess(out[i].Label, out[j].Label)
	})
	return out
}

func monthLess(a, b string) bool {
	var am, ay, bm, by int
	_, errA := fmt.Sscanf(a, "%d/%d", &am, &ay)
	_, errB := fmt.Sscanf(b, "%d/%d", &bm, &by)
	if errA != nil || errB != nil {
		return a < b
	}
	if ay != by {
		return ay < by
	}
	return am < bm
}

// ItemCount is how many order lines carried an item name.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopItems counts line occurrences per item name and returns the most
// frequent ones. Ties keep first-encountered order. limit <= 0 uses
// DefaultTopItemsLimit.
func TopItems(orders []model.Order, limit int) []ItemCount {
	if limit <= 0 {
		limit = DefaultTopItemsLimit
	}

	index := make(map[string]int)
	counts := []ItemCount{}
	for _, o := range orders {
		for _, item := range o.Items {
			i, ok := index[item.Name]
			if !ok {
				i = len(counts)
				index[item.Name] = i
				counts = append(counts, ItemCount{Name: item.Name})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Slice is one wedge of a two-way split.
type Slice struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// VegNonVegSplit counts order lines by their veg flag. Lines without the
// flag count as non-veg.
func VegNonVegSplit(orders []model.Order) []Slice {
	var veg, nonVeg float64
	for _, o := range orders {
		for _, item := range o.Items {
			if item.IsVeg() {
				veg++
			} else {
				nonVeg++
			}
		}
	}
	return []Slice{
		{Type: "Veg", Value: veg},
		{Type: "Non-Veg", Value: nonVeg},
	}
}

// TypeSplit partitions orders by fulfilment type.
type TypeSplit struct {
	Counts  []Slice `json:"counts"`
	Revenue []Slice `json:"revenue"`
}

// DineVsDeliverySplit returns order counts and revenue for dine-in versus
// everything else, which is bucketed as delivery.
func DineVsDeliverySplit(orders []model.Order) TypeSplit {
	var dineCount, deliveryCount, dineRevenue, deliveryRevenue float64
	for _, o := range orders {
		total := o.Total()
		if o.Type == model.OrderTypeDineIn {
			dineCount++
			dineRevenue += total
		} else {
			deliveryCount++
			deliveryRevenue += total
		}
	}
	return TypeSplit{
		Counts: []Slice{
			{Type: "Dine-in", Value: dineCount},
			{Type: "Delivery", Value: deliveryCount},
		},
		Revenue: []Slice{
			{Type: "Dine-in", Value: dineRevenue},
			{Type: "Delivery", Value: deliveryRevenue},
		},
	}
}

// StatusCount is the frequency of one status value.
type StatusCount struct {
	Status string `json:"status"`
	Value  int    `json:"value"`
}

// StatusCounts builds a frequency table over field. Every enumerated value
// and Unknown are always present, zero or not; other observed values follow
// the enumerated ones in first-seen order and Unknown comes last.
func StatusCounts(orders []model.Order, field Field) []StatusCount {
	keys := field.enumerated()
	counts := make(map[string]int, len(keys)+1)
	for _, k := range keys {
		counts[k] = 0
	}

	var extra []string
	for _, o := range orders {
		v := field.value(o)
		if _, seen := counts[v]; !seen && v != Unknown {
			extra = append(extra, v)
		}
		counts[v]++
	}

	keys = append(keys, extra...)
	keys = append(keys, Unknown)

	out := make([]StatusCount, len(keys))
	for i, k := range keys {
		out[i] = StatusCount{Status: k, Value: counts[k]}
	}
	return out
}

// MonthStatusRow is one month of StackedStatusByMonth. Counts is sparse: a
// status with no orders in the month has no key.
type MonthStatusRow struct {
	Month  string
	Counts map[string]int
}

// MarshalJSON flattens the row to {"month": "1/2024", "<status>": n, ...}.
func (r MonthStatusRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Counts)+1)
	for status, n := range r.Counts {
		flat[status] = n
	}
	flat["month"] = r.Month
	return json.Marshal(flat)
}

// Count returns the number of orders with status in the month, treating a
// missing key as zero.
func (r MonthStatusRow) Count(status string) int {
	return r.Counts[status]
}

// StackedStatusByMonth groups orders by month, then by the value of field.
// Rows appear in first-seen month order.
func StackedStatusByMonth(orders []model.Order, field Field) []MonthStatusRow {
	index := make(map[string]int)
	rows := []MonthStatusRow{}
	for _, o := range orders {
		month := MonthLabel(o.Timestamp)
		i, ok := index[month]
		if !ok {
			i = len(rows)
			index[month] = i
			rows = append(rows, MonthStatusRow{Month: month, Counts: map[string]int{}})
		}
		rows[i].Counts[field.value(o)]++
	}
	return rows
}
