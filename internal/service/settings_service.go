package service

import (
	"context"
	"fmt"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"

	"github.com/rs/zerolog"
)

// settingsService implements SettingsService.
type settingsService struct {
	settingsRepo      repository.SettingsRepository
	defaultTableCount int
	logger            zerolog.Logger
}

// NewSettingsService creates a settings service. defaultTableCount is used
// until an admin saves the settings row; values below 1 mean model.DefaultTableCount.
func NewSettingsService(settingsRepo repository.SettingsRepository, defaultTableCount int, logger zerolog.Logger) SettingsService {
	if defaultTableCount < 1 {
		defaultTableCount = model.DefaultTableCount
	}
	return &settingsService{
		settingsRepo:      settingsRepo,
		defaultTableCount: defaultTableCount,
		logger:            logger.With().Str("service", "settings").Logger(),
	}
}

// Get returns the stored settings or the defaults when none were saved.
func (s *settingsService) Get(ctx context.Context) (model.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get settings")
		return model.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	if settings == nil {
		s.logger.Debug().Int("table_count", s.defaultTableCount).Msg("settings not found, using defaults")
		return model.Settings{ID: model.SettingsID, TableCount: s.defaultTableCount}, nil
	}

	return *settings, nil
}

// Save stores a new table count.
func (s *settingsService) Save(ctx context.Context, tableCount int) (model.Settings, error) {
	if tableCount < 1 {
		s.logger.Warn().Int("table_count", tableCount).Msg("invalid table count")
		return model.Settings{}, model.ErrInvalidTableCount
	}

	settings := model.Settings{ID: model.SettingsID, TableCount: tableCount}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		s.logger.Error().Err(err).Int("table_count", tableCount).Msg("failed to save settings")
		return model.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info().Int("table_count", tableCount).Msg("settings saved")
	return settings, nil
}
