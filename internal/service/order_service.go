package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/events"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MinLookupPhoneDigits is the number of digits a phone needs before it is
// used to look up a previous delivery address.
const MinLookupPhoneDigits = 10

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	settings  SettingsService
	publisher events.Publisher
	cfg       config.OrdersConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	settings SettingsService,
	publisher events.Publisher,
	cfg config.OrdersConfig,
	logger zerolog.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &orderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		settings:  settings,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With().Str("service", "order").Logger(),
		now:       time.Now,
	}
}

// PlaceOrder validates the cart and fulfillment and inserts a new order.
// Nothing reaches the store unless every check passes.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error) {
	if err := s.validatePlaceOrderRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("order rejected")
		return nil, err
	}

	items, err := s.resolveItems(ctx, req.ItemIDs)
	if err != nil {
		return nil, err
	}

	f := req.Fulfillment
	if f.Type == model.OrderTypeDineIn {
		if err := s.checkTable(ctx, *f.TableNo); err != nil {
			return nil, err
		}
	}

	order := &model.Order{
		ID:            uuid.New(),
		Items:         items,
		Type:          f.Type,
		Status:        model.OrderStatusReceived,
		PaymentStatus: model.PaymentStatusUnpaid,
		Timestamp:     s.now().UTC(),
	}
	switch f.Type {
	case model.OrderTypeDineIn:
		table := *f.TableNo
		order.TableNo = &table
	case model.OrderTypeDelivery:
		phone := strings.TrimSpace(f.PhoneNo)
		building := strings.TrimSpace(f.BuildingNo)
		flat := strings.TrimSpace(f.FlatNo)
		order.PhoneNo = &phone
		order.BuildingNo = &building
		order.FlatNo = &flat
	}

	if err := s.orderRepo.Insert(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("type", string(order.Type)).
		Int("item_count", len(order.Items)).
		Float64("total", order.Total()).
		Msg("order placed")

	s.publish(ctx, events.Placed(order))
	return order, nil
}

// validatePlaceOrderRequest checks the cart, then the fulfillment details.
func (s *orderService) validatePlaceOrderRequest(req *model.PlaceOrderRequest) error {
	if req == nil || len(req.ItemIDs) == 0 {
		return model.ErrEmptyCart
	}

	f := req.Fulfillment
	switch f.Type {
	case model.OrderTypeDineIn:
		if f.TableNo == nil {
			return model.ErrMissingTable
		}
	case model.OrderTypeDelivery:
		if strings.TrimSpace(f.PhoneNo) == "" ||
			strings.TrimSpace(f.BuildingNo) == "" ||
			strings.TrimSpace(f.FlatNo) == "" {
			return model.ErrMissingDeliveryInfo
		}
	default:
		return model.ErrInvalidOrderType
	}
	return nil
}

// resolveItems snapshots the menu items in cart order. Repeated ids produce
// repeated lines.
func (s *orderService) resolveItems(ctx context.Context, ids []uuid.UUID) ([]model.LineItem, error) {
	found, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("item_count", len(ids)).Msg("failed to get menu items")
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}

	byID := make(map[uuid.UUID]model.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	lines := make([]model.LineItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			s.logger.Warn().Str("menu_item_id", id.String()).Msg("menu item not found")
			return nil, model.ErrMenuItemNotFound
		}
		if !item.Available {
			s.logger.Warn().Str("menu_item_id", id.String()).Msg("menu item unavailable")
			return nil, model.ErrItemUnavailable
		}
		lines = append(lines, item.LineItem())
	}
	return lines, nil
}

func (s *orderService) checkTable(ctx context.Context, table int) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if table < 1 || table > settings.TableCount {
		s.logger.Warn().
			Int("table_no", table).
			Int("table_count", settings.TableCount).
			Msg("table out of range")
		return model.ErrInvalidTable
	}
	return nil
}

// ListOrders retrieves every order, newest first.
func (s *orderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	s.logger.Debug().Int("count", len(orders)).Msg("retrieved orders")
	return orders, nil
}

// GetByID retrieves one order.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// ToggleOrderStatus flips the order status. Concurrent toggles are
// last-write-wins.
func (s *orderService) ToggleOrderStatus(ctx context.Context, id uuid.UUID) (model.OrderStatus, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	next := order.Status.Toggle()
	if err := s.orderRepo.Update(ctx, id, model.OrderPatch{Status: &next}); err != nil {
		if model.IsNotFound(err) {
			return "", err
		}
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return "", fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(next)).
		Msg("order status changed")

	s.publish(ctx, events.StatusChanged(id, next))
	return next, nil
}

// TogglePaymentStatus flips the payment status.
func (s *orderService) TogglePaymentStatus(ctx context.Context, id uuid.UUID) (model.PaymentStatus, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	next := order.PaymentStatus.Toggle()
	if err := s.orderRepo.Update(ctx, id, model.OrderPatch{PaymentStatus: &next}); err != nil {
		if model.IsNotFound(err) {
			return "", err
		}
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update payment status")
		return "", fmt.Errorf("failed to update payment status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.PaymentStatus)).
		Str("to", string(next)).
		Msg("payment status changed")

	s.publish(ctx, events.PaymentChanged(id, next))
	return next, nil
}

// DeleteOrder removes an order permanently.
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if !s.cfg.DeleteEnabled {
		s.logger.Warn().Str("order_id", id.String()).Msg("order deletion is disabled")
		return model.ErrOrderDeletionDisabled
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if model.IsNotFound(err) {
			return err
		}
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	s.publish(ctx, events.Deleted(id))
	return nil
}

// LookupAddressByPhone returns the building and flat of the most recent
// delivery to phone. Short phones and unknown numbers yield model.ErrNotFound.
func (s *orderService) LookupAddressByPhone(ctx context.Context, phone string) (*model.DeliveryAddress, error) {
	phone = strings.TrimSpace(phone)
	if countDigits(phone) < MinLookupPhoneDigits {
		return nil, model.ErrNotFound
	}

	order, err := s.orderRepo.LatestDeliveryByPhone(ctx, phone)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up address by phone")
		return nil, fmt.Errorf("failed to look up address: %w", err)
	}
	if order == nil || order.BuildingNo == nil || order.FlatNo == nil {
		return nil, model.ErrNotFound
	}

	return &model.DeliveryAddress{BuildingNo: *order.BuildingNo, FlatNo: *order.FlatNo}, nil
}

// LookupPhoneByAddress returns the phone of the most recent delivery to
// building/flat, or model.ErrNotFound.
func (s *orderService) LookupPhoneByAddress(ctx context.Context, building, flat string) (string, error) {
	building = strings.TrimSpace(building)
	flat = strings.TrimSpace(flat)
	if building == "" || flat == "" {
		return "", model.ErrNotFound
	}

	order, err := s.orderRepo.LatestDeliveryByAddress(ctx, building, flat)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up phone by address")
		return "", fmt.Errorf("failed to look up phone: %w", err)
	}
	if order == nil || order.PhoneNo == nil {
		return "", model.ErrNotFound
	}

	return *order.PhoneNo, nil
}

// TotalSales sums the totals of every order.
func (s *orderService) TotalSales(ctx context.Context) (float64, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, o := range orders {
		total += o.Total()
	}
	return total, nil
}

func (s *orderService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("type", string(event.Type)).
			Str("order_id", event.OrderID.String()).
			Msg("failed to publish order event")
	}
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
