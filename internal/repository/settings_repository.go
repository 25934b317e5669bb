package repository

import (
	"context"

	"restaurant-pos/internal/model"

	"github.com/rs/zerolog"
)

type settingsRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewSettingsRepository creates a new PostgreSQL-backed settings repository.
func NewSettingsRepository(db DBTX, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger.With().Str("repository", "settings").Logger(),
	}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.db.QueryRow(ctx, `SELECT id, table_count FROM settings WHERE id = $1`, model.SettingsID).
		Scan(&s.ID, &s.TableCount)
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Msg("settings row not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query settings")
		return nil, model.NewStoreError("select", "settings", err)
	}
	return &s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings model.Settings) error {
	query := `
		INSERT INTO settings (id, table_count) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET table_count = EXCLUDED.table_count
	`
	if _, err := r.db.Exec(ctx, query, settings.ID, settings.TableCount); err != nil {
		r.logger.Error().Err(err).Int("table_count", settings.TableCount).Msg("failed to upsert settings")
		return model.NewStoreError("upsert", "settings", err)
	}
	return nil
}
