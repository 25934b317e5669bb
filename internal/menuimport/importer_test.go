package menuimport

import (
	"context"
	"errors"
	"sync"
	"testing"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCatalog is an in-memory menu keyed by id.
type recordingCatalog struct {
	mu    sync.Mutex
	items []model.MenuItem
	names []string
	fail  string
}

func (r *recordingCatalog) List(context.Context) ([]model.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.MenuItem(nil), r.items...), nil
}

func (r *recordingCatalog) AddOrUpdate(_ context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.Name == r.fail {
		return nil, model.ErrInvalidMenuItem
	}
	r.names = append(r.names, req.Name)

	item := model.MenuItem{ID: uuid.New(), Name: req.Name, Price: req.Price.Value, Portion: req.Portion, Available: true}
	if item.Portion == "" {
		item.Portion = model.PortionFull
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.ID != nil {
		item.ID = *req.ID
		for i := range r.items {
			if r.items[i].ID == item.ID {
				r.items[i] = item
				return &item, nil
			}
		}
	}
	r.items = append(r.items, item)
	return &item, nil
}

func sources() funcLoader {
	return func(_ context.Context, source string) ([]model.MenuItemRequest, error) {
		switch source {
		case "a.csv":
			return []model.MenuItemRequest{{Name: "a1"}, {Name: "a2"}}, nil
		case "b.csv":
			return []model.MenuItemRequest{{Name: "b1"}}, nil
		}
		return nil, errors.New("no such source")
	}
}

func TestImporter_Import_PreservesSourceOrder(t *testing.T) {
	menu := &recordingCatalog{}
	im := NewImporter(sources(), menu, zerolog.Nop())

	res, err := im.Import(context.Background(), []string{"b.csv", "a.csv"})
	require.NoError(t, err)

	assert.Equal(t, []string{"b1", "a1", "a2"}, menu.names)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, []SourceResult{{Source: "b.csv", Items: 1}, {Source: "a.csv", Items: 2}}, res.Sources)
}

func TestImporter_Import_LoadFailureStoresNothing(t *testing.T) {
	menu := &recordingCatalog{}
	im := NewImporter(sources(), menu, zerolog.Nop())

	_, err := im.Import(context.Background(), []string{"a.csv", "missing.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
	assert.Empty(t, menu.names)
}

func TestImporter_Import_UpsertFailureStops(t *testing.T) {
	menu := &recordingCatalog{fail: "a2"}
	im := NewImporter(sources(), menu, zerolog.Nop())

	res, err := im.Import(context.Background(), []string{"a.csv", "b.csv"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidMenuItem)
	assert.Equal(t, []string{"a1"}, menu.names)
	assert.Equal(t, 1, res.Imported)
}

func TestImporter_Import_TwiceUpdatesInsteadOfDuplicating(t *testing.T) {
	loader := funcLoader(func(context.Context, string) ([]model.MenuItemRequest, error) {
		return []model.MenuItemRequest{
			{Name: "Masala Dosa", Price: model.NewPrice(90)},
			{Name: "Masala Dosa", Price: model.NewPrice(50), Portion: model.PortionHalf},
		}, nil
	})
	menu := &recordingCatalog{}
	im := NewImporter(loader, menu, zerolog.Nop())

	first, err := im.Import(context.Background(), []string{"menu.csv"})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)
	assert.Zero(t, first.Updated)

	// Switched off between imports; a row without an available column keeps it off.
	menu.items[0].Available = false

	second, err := im.Import(context.Background(), []string{"menu.csv"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Imported)
	assert.Equal(t, 2, second.Updated)

	require.Len(t, menu.items, 2)
	assert.False(t, menu.items[0].Available)
	assert.True(t, menu.items[1].Available)
}

func TestImporter_Import_MatchesNameIgnoringCase(t *testing.T) {
	id := uuid.New()
	menu := &recordingCatalog{items: []model.MenuItem{
		{ID: id, Name: "Filter Coffee", Portion: model.PortionFull, Available: true},
	}}
	loader := funcLoader(func(context.Context, string) ([]model.MenuItemRequest, error) {
		return []model.MenuItemRequest{{Name: " filter coffee ", Price: model.NewPrice(30), Portion: model.PortionFull}}, nil
	})

	res, err := NewImporter(loader, menu, zerolog.Nop()).Import(context.Background(), []string{"menu.csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, menu.items, 1)
	assert.Equal(t, id, menu.items[0].ID)
}
