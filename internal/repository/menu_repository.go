package repository

import (
	"context"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const menuColumns = `id, name, price, category, portion, veg, available, created_at`

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(db DBTX, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		db:     db,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// List retrieves every menu item in creation order.
func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu ORDER BY created_at, id`
	return r.query(ctx, query)
}

// ListAvailable retrieves only items that can be ordered.
func (r *menuRepository) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu WHERE available = TRUE ORDER BY created_at, id`
	return r.query(ctx, query)
}

// GetByID retrieves a single item. Returns nil, nil when missing.
func (r *menuRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu WHERE id = $1`

	item, err := scanMenuItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Str("menu_item_id", id.String()).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to query menu item")
		return nil, model.NewStoreError("select", "menu", err)
	}

	return &item, nil
}

// GetByIDs retrieves the distinct items among ids.
func (r *menuRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return []model.MenuItem{}, nil
	}

	query := `SELECT ` + menuColumns + ` FROM menu WHERE id = ANY($1) ORDER BY name`
	return r.query(ctx, query, ids)
}

// Upsert inserts the item or replaces the row with the same id.
func (r *menuRepository) Upsert(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu (id, name, price, category, portion, veg, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			portion = EXCLUDED.portion,
			veg = EXCLUDED.veg,
			available = EXCLUDED.available
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		item.ID, item.Name, item.Price, item.Category, string(item.Portion), item.Veg, item.Available, item.CreatedAt,
	).Scan(&item.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", item.ID.String()).Msg("failed to upsert menu item")
		return model.NewStoreError("upsert", "menu", err)
	}

	r.logger.Debug().Str("menu_item_id", item.ID.String()).Msg("menu item upserted")
	return nil
}

// SetAvailability updates the available flag of one item.
func (r *menuRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE menu SET available = $2 WHERE id = $1`, id, available)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to update availability")
		return model.NewStoreError("update", "menu", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}
	return nil
}

// Delete removes one item permanently.
func (r *menuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", id.String()).Msg("failed to delete menu item")
		return model.NewStoreError("delete", "menu", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}
	return nil
}

func (r *menuRepository) query(ctx context.Context, query string, args ...any) ([]model.MenuItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu")
		return nil, model.NewStoreError("select", "menu", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu row")
			return nil, model.NewStoreError("select", "menu", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu rows")
		return nil, model.NewStoreError("select", "menu", err)
	}

	return items, nil
}

func scanMenuItem(row pgx.Row) (model.MenuItem, error) {
	var (
		item    model.MenuItem
		portion string
	)
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Category,
		&portion,
		&item.Veg,
		&item.Available,
		&item.CreatedAt,
	)
	item.Portion = model.Portion(portion)
	return item, err
}
