package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

// List retrieves every menu item.
func (s *menuService) List(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu")
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}

	s.logger.Debug().Int("count", len(items)).Msg("retrieved menu")
	return items, nil
}

// ListAvailable retrieves the items that can be ordered.
func (s *menuService) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuRepo.ListAvailable(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list available menu")
		return nil, fmt.Errorf("failed to list available menu: %w", err)
	}
	return items, nil
}

// AddOrUpdate upserts an item keyed by its id.
func (s *menuService) AddOrUpdate(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	item, err := s.buildItem(req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("menu item rejected")
		return nil, err
	}

	if req.ID != nil {
		existing, err := s.menuRepo.GetByID(ctx, *req.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("menu_item_id", req.ID.String()).Msg("failed to get menu item")
			return nil, fmt.Errorf("failed to get menu item: %w", err)
		}
		if existing != nil && req.Available == nil {
			item.Available = existing.Available
		}
	}

	if err := s.menuRepo.Upsert(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", item.ID.String()).Msg("failed to save menu item")
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}

	s.logger.Info().
		Str("menu_item_id", item.ID.String()).
		Str("name", item.Name).
		Msg("menu item saved")

	return item, nil
}

func (s *menuService) buildItem(req *model.MenuItemRequest) (*model.MenuItem, error) {
	if req == nil {
		return nil, model.ErrInvalidMenuItem
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || !req.Price.Set {
		return nil, model.ErrInvalidMenuItem
	}
	if req.Price.Value < 0 || !model.IsFinite(req.Price.Value) {
		return nil, model.ErrInvalidPrice
	}

	portion := req.Portion
	if portion == "" {
		portion = model.PortionFull
	}
	if !portion.Valid() {
		return nil, model.ErrInvalidPortion
	}

	item := &model.MenuItem{
		ID:        uuid.New(),
		Name:      name,
		Price:     req.Price.Value,
		Category:  strings.TrimSpace(req.Category),
		Portion:   portion,
		Veg:       req.Veg,
		Available: true,
		CreatedAt: time.Now(),
	}
	if req.ID != nil {
		item.ID = *req.ID
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	return item, nil
}

// ToggleAvailability flips the available flag and persists it immediately.
func (s *menuService) ToggleAvailability(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, model.ErrMenuItemNotFound
	}

	next := !item.Available
	if err := s.menuRepo.SetAvailability(ctx, id, next); err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to toggle availability")
		return nil, fmt.Errorf("failed to toggle availability: %w", err)
	}
	item.Available = next

	s.logger.Info().
		Str("menu_item_id", id.String()).
		Bool("available", next).
		Msg("menu item availability changed")

	return item, nil
}

// Remove deletes an item permanently.
func (s *menuService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		if model.IsNotFound(err) {
			return err
		}
		s.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.logger.Info().Str("menu_item_id", id.String()).Msg("menu item removed")
	return nil
}
