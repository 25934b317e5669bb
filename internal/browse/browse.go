// Package browse holds the list helpers shared by the menu and order screens:
// substring search, category grouping and fixed-size pagination. Everything
// runs over lists already fetched from the store.
package browse

import (
	"strconv"
	"strings"

	"restaurant-pos/internal/model"
)

// Page sizes used by the screens.
const (
	MenuPageSize     = 10
	CategoryPageSize = 3
	HistoryPageSize  = 4
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the 1-based page of items. Pages outside the range are
// clamped to the nearest valid page; an empty list yields page 1 with no items.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = MenuPageSize
	}

	totalPages := (len(items) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := min(start+size, len(items))

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		TotalItems: len(items),
		TotalPages: totalPages,
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// SearchMenu keeps items whose name, category or portion contains q,
// ignoring case. A blank query returns the list unchanged.
func SearchMenu(items []model.MenuItem, q string) []model.MenuItem {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}

	out := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if containsFold(item.Name, q) || containsFold(item.Category, q) || containsFold(string(item.Portion), q) {
			out = append(out, item)
		}
	}
	return out
}

// Category is a named group of menu items.
type Category struct {
	Name  string           `json:"name"`
	Items []model.MenuItem `json:"items"`
}

// GroupByCategory groups items by category in first-seen order.
func GroupByCategory(items []model.MenuItem) []Category {
	index := make(map[string]int)
	groups := []Category{}
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, Category{Name: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// FilterByStatus keeps orders with the given status. "" and StatusAll keep everything.
func FilterByStatus(orders []model.Order, status string) []model.Order {
	if status == "" || status == StatusAll {
		return orders
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out
}

// SearchOrders keeps orders where q appears in any item name, the table
// number, the order type, or the phone, building or flat fields.
func SearchOrders(orders []model.Order, q string) []model.Order {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return orders
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if orderMatches(o, q) {
			out = append(out, o)
		}
	}
	return out
}

func orderMatches(o model.Order, q string) bool {
	for _, item := range o.Items {
		if containsFold(item.Name, q) {
			return true
		}
	}
	if o.TableNo != nil && containsFold(strconv.Itoa(*o.TableNo), q) {
		return true
	}
	if containsFold(string(o.Type), q) {
		return true
	}
	for _, field := range []*string{o.PhoneNo, o.BuildingNo, o.FlatNo} {
		if field != nil && containsFold(*field, q) {
			return true
		}
	}
	return false
}
