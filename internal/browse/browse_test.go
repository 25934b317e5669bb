package browse

import (
	"testing"

	"restaurant-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func menu() []model.MenuItem {
	return []model.MenuItem{
		{Name: "Masala Dosa", Category: "South Indian", Portion: model.PortionFull},
		{Name: "Paneer Tikka", Category: "Starters", Portion: model.PortionHalf},
		{Name: "Idli", Category: "South Indian", Portion: model.PortionRegular},
		{Name: "Lassi", Category: "Drinks", Portion: model.PortionJumbo},
	}
}

func TestSearchMenu(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "case-insensitive name substring", query: "dos", expected: []string{"Masala Dosa"}},
		{name: "category", query: "south", expected: []string{"Masala Dosa", "Idli"}},
		{name: "portion", query: "JUMBO", expected: []string{"Lassi"}},
		{name: "blank query", query: "  ", expected: []string{"Masala Dosa", "Paneer Tikka", "Idli", "Lassi"}},
		{name: "no match", query: "pizza", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchMenu(menu(), tt.query)
			names := make([]string, 0, len(got))
			for _, item := range got {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(menu())

	require.Len(t, groups, 3)
	assert.Equal(t, "South Indian", groups[0].Name)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Starters", groups[1].Name)
	assert.Equal(t, "Drinks", groups[2].Name)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	tests := []struct {
		name       string
		page       int
		size       int
		expected   []int
		page0      int
		totalPages int
	}{
		{name: "first page", page: 1, size: 4, expected: []int{1, 2, 3, 4}, page0: 1, totalPages: 3},
		{name: "last partial page", page: 3, size: 4, expected: []int{9, 10, 11}, page0: 3, totalPages: 3},
		{name: "page past the end is clamped", page: 9, size: 4, expected: []int{9, 10, 11}, page0: 3, totalPages: 3},
		{name: "page below one is clamped", page: 0, size: 10, expected: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, page0: 1, totalPages: 2},
		{name: "default size", page: 2, size: 0, expected: []int{11}, page0: 2, totalPages: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, tt.size)
			assert.Equal(t, tt.expected, p.Items)
			assert.Equal(t, tt.page0, p.Page)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, len(items), p.TotalItems)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 3, HistoryPageSize)

	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
}

func orders() []model.Order {
	return []model.Order{
		{
			Items:   []model.LineItem{{Name: "Masala Dosa", Price: 80}},
			Type:    model.OrderTypeDineIn,
			TableNo: intPtr(5),
			Status:  model.OrderStatusReceived,
		},
		{
			Items:      []model.LineItem{{Name: "Lassi", Price: 40}},
			Type:       model.OrderTypeDelivery,
			PhoneNo:    strPtr("9988776600"),
			BuildingNo: strPtr("B12"),
			FlatNo:     strPtr("304"),
			Status:     model.OrderStatusCompleted,
		},
	}
}

func TestSearchOrders(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{name: "item name", query: "dosa", expected: 1},
		{name: "table number", query: "5", expected: 1},
		{name: "type", query: "delivery", expected: 1},
		{name: "phone", query: "99887", expected: 1},
		{name: "building", query: "b12", expected: 1},
		{name: "flat", query: "304", expected: 1},
		{name: "blank", query: "", expected: 2},
		{name: "no match", query: "zzz", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, SearchOrders(orders(), tt.query), tt.expected)
		})
	}
}

func TestFilterByStatus(t *testing.T) {
	assert.Len(t, FilterByStatus(orders(), StatusAll), 2)
	assert.Len(t, FilterByStatus(orders(), ""), 2)
	assert.Len(t, FilterByStatus(orders(), "completed"), 1)
	assert.Empty(t, FilterByStatus(orders(), "pending"))
}
