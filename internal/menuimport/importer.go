package menuimport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"restaurant-pos/internal/model"

	"github.com/rs/zerolog"
)

// Catalog lists and stores menu items. service.MenuService satisfies it.
type Catalog interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	AddOrUpdate(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error)
}

// SourceResult is the outcome of one imported source.
type SourceResult struct {
	Source string `json:"source"`
	Items  int    `json:"items"`
}

// Result summarises an import.
type Result struct {
	Sources  []SourceResult `json:"sources"`
	Imported int            `json:"imported"`
	Updated  int            `json:"updated"`
}

// itemKey identifies a menu item across imports: rows carry no id, so an
// item with the same name and portion is updated instead of duplicated.
func itemKey(name string, portion model.Portion) string {
	if portion == "" {
		portion = model.PortionFull
	}
	return strings.ToLower(strings.TrimSpace(name)) + "\x00" + strings.ToLower(string(portion))
}

// Importer loads several sources and stores their items.
type Importer struct {
	loader Loader
	menu   Catalog
	logger zerolog.Logger
}

// NewImporter creates an importer.
func NewImporter(loader Loader, menu Catalog, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		menu:   menu,
		logger: logger.With().Str("component", "menu-importer").Logger(),
	}
}

// Import loads every source concurrently, then upserts the items in source
// order. A row matching an existing item by name and portion updates that
// item and keeps its availability unless the row sets it. Nothing is stored
// when any source fails to load; a failed upsert stops the import and items
// before it stay stored.
func (im *Importer) Import(ctx context.Context, sources []string) (*Result, error) {
	type loadResult struct {
		index int
		items []model.MenuItemRequest
		err   error
	}

	resultChan := make(chan loadResult, len(sources))
	var wg sync.WaitGroup

	for i, source := range sources {
		wg.Add(1)
		go func(index int, src string) {
			defer wg.Done()
			items, err := im.loader.Load(ctx, src)
			resultChan <- loadResult{index: index, items: items, err: err}
		}(i, source)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(sources))
	for r := range resultChan {
		results[r.index] = r
	}

	for i, r := range results {
		if r.err != nil {
			im.logger.Error().Err(r.err).Str("source", sources[i]).Msg("failed to load menu source")
			return nil, fmt.Errorf("failed to load menu source %s: %w", sources[i], r.err)
		}
	}

	existing, err := im.menu.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	known := make(map[string]model.MenuItem, len(existing))
	for _, item := range existing {
		known[itemKey(item.Name, item.Portion)] = item
	}

	out := &Result{Sources: make([]SourceResult, 0, len(sources))}
	for i, r := range results {
		for j := range r.items {
			req := &r.items[j]
			key := itemKey(req.Name, req.Portion)
			current, found := known[key]
			if found && req.ID == nil {
				id := current.ID
				req.ID = &id
				if req.Available == nil {
					available := current.Available
					req.Available = &available
				}
			}

			stored, err := im.menu.AddOrUpdate(ctx, req)
			if err != nil {
				im.logger.Error().
					Err(err).
					Str("source", sources[i]).
					Str("name", r.items[j].Name).
					Msg("failed to import menu item")
				return out, fmt.Errorf("failed to import %q from %s: %w", r.items[j].Name, sources[i], err)
			}
			known[key] = *stored
			if found {
				out.Updated++
			}
			out.Imported++
		}
		out.Sources = append(out.Sources, SourceResult{Source: sources[i], Items: len(r.items)})
	}

	im.logger.Info().
		Int("sources", len(sources)).
		Int("imported", out.Imported).
		Int("updated", out.Updated).
		Msg("menu import finished")

	return out, nil
}
