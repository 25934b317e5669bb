package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const orderColumns = `id, items, type, table_no, phone_no, building_no, flat_no, status, payment_status, "timestamp"`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db DBTX, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Insert stores a new order row.
func (r *orderRepository) Insert(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.Exec(ctx, query,
		order.ID,
		items,
		string(order.Type),
		order.TableNo,
		order.PhoneNo,
		order.BuildingNo,
		order.FlatNo,
		string(order.Status),
		string(order.PaymentStatus),
		order.Timestamp,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to insert order")
		return model.NewStoreError("insert", "orders", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order inserted")

	return nil
}

// List retrieves every order, newest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY "timestamp" DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, model.NewStoreError("select", "orders", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, model.NewStoreError("select", "orders", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, model.NewStoreError("select", "orders", err)
	}

	return orders, nil
}

// GetByID retrieves one order. Returns nil, nil when missing.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// Update applies a status and/or payment status patch to one order.
func (r *orderRepository) Update(ctx context.Context, id uuid.UUID, patch model.OrderPatch) error {
	var status, payment *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	if patch.PaymentStatus != nil {
		p := string(*patch.PaymentStatus)
		payment = &p
	}
	if status == nil && payment == nil {
		return nil
	}

	query := `
		UPDATE orders SET
			status = COALESCE($2, status),
			payment_status = COALESCE($3, payment_status)
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, status, payment)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order")
		return model.NewStoreError("update", "orders", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().Str("order_id", id.String()).Msg("order updated")
	return nil
}

// Delete removes one order permanently.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return model.NewStoreError("delete", "orders", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// LatestDeliveryByPhone returns the most recent delivery order for phone.
func (r *orderRepository) LatestDeliveryByPhone(ctx context.Context, phone string) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE type = 'delivery' AND phone_no = $1
		ORDER BY "timestamp" DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, phone)
}

// LatestDeliveryByAddress returns the most recent delivery order for the building/flat pair.
func (r *orderRepository) LatestDeliveryByAddress(ctx context.Context, building, flat string) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE type = 'delivery' AND building_no = $1 AND flat_no = $2
		ORDER BY "timestamp" DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, building, flat)
}

func (r *orderRepository) queryOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, model.NewStoreError("select", "orders", err)
	}
	return &order, nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		order         model.Order
		items         []byte
		orderType     string
		status        *string
		paymentStatus *string
	)

	err := row.Scan(
		&order.ID,
		&items,
		&orderType,
		&order.TableNo,
		&order.PhoneNo,
		&order.BuildingNo,
		&order.FlatNo,
		&status,
		&paymentStatus,
		&order.Timestamp,
	)
	if err != nil {
		return order, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return order, fmt.Errorf("failed to decode items of order %s: %w", order.ID, err)
	}

	order.Type = model.OrderType(orderType)
	if status != nil {
		order.Status = model.OrderStatus(*status)
	}
	if paymentStatus != nil {
		order.PaymentStatus = model.PaymentStatus(*paymentStatus)
	}

	return order, nil
}
