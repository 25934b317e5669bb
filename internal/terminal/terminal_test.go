package terminal

import (
	"context"
	"errors"
	"testing"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ToggleOrderStatus(ctx context.Context, id uuid.UUID) (model.OrderStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.OrderStatus), args.Error(1)
}

func (m *MockOrderService) TogglePaymentStatus(ctx context.Context, id uuid.UUID) (model.PaymentStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.PaymentStatus), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderService) LookupAddressByPhone(ctx context.Context, phone string) (*model.DeliveryAddress, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeliveryAddress), args.Error(1)
}

func (m *MockOrderService) LookupPhoneByAddress(ctx context.Context, building, flat string) (string, error) {
	args := m.Called(ctx, building, flat)
	return args.String(0), args.Error(1)
}

func (m *MockOrderService) TotalSales(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func dish(name string, price float64) model.MenuItem {
	return model.MenuItem{ID: uuid.New(), Name: name, Price: price, Category: "Mains", Portion: model.PortionFull, Available: true}
}

func TestTerminal_ToggleItem(t *testing.T) {
	term := New(new(MockOrderService), zerolog.Nop())
	dosa := dish("Dosa", 50)
	idli := dish("Idli", 75)

	assert.True(t, term.ToggleItem(dosa))
	assert.True(t, term.ToggleItem(idli))

	state := term.Snapshot()
	require.Len(t, state.Items, 2)
	assert.Equal(t, float64(125), state.Total)

	assert.False(t, term.ToggleItem(dosa))
	state = term.Snapshot()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Idli", state.Items[0].Name)
}

func TestTerminal_SnapshotIsACopy(t *testing.T) {
	term := New(new(MockOrderService), zerolog.Nop())
	term.ToggleItem(dish("Dosa", 50))
	term.SetTable(3)

	state := term.Snapshot()
	state.Items[0].Name = "changed"
	*state.Fulfillment.TableNo = 9

	fresh := term.Snapshot()
	assert.Equal(t, "Dosa", fresh.Items[0].Name)
	assert.Equal(t, 3, *fresh.Fulfillment.TableNo)
}

func TestTerminal_SetType(t *testing.T) {
	term := New(new(MockOrderService), zerolog.Nop())
	assert.Equal(t, model.OrderTypeDineIn, term.Snapshot().Fulfillment.Type)

	require.NoError(t, term.SetType(model.OrderTypeDelivery))
	assert.Equal(t, model.OrderTypeDelivery, term.Snapshot().Fulfillment.Type)

	assert.ErrorIs(t, term.SetType("takeaway"), model.ErrInvalidOrderType)
}

func TestTerminal_SetPhone_Autofill(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderService)
	term := New(orders, zerolog.Nop())

	orders.On("LookupAddressByPhone", ctx, "98765").Return(nil, model.ErrNotFound)
	orders.On("LookupAddressByPhone", ctx, "9876543210").Return(&model.DeliveryAddress{BuildingNo: "B7", FlatNo: "702"}, nil)

	term.SetPhone(ctx, "98765")
	f := term.Snapshot().Fulfillment
	assert.Equal(t, "98765", f.PhoneNo)
	assert.Empty(t, f.BuildingNo)

	term.SetPhone(ctx, "9876543210")
	f = term.Snapshot().Fulfillment
	assert.Equal(t, "B7", f.BuildingNo)
	assert.Equal(t, "702", f.FlatNo)
}

func TestTerminal_SetAddress_Autofill(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderService)
	term := New(orders, zerolog.Nop())

	orders.On("LookupPhoneByAddress", ctx, "B7", "702").Return("9876543210", nil)
	orders.On("LookupPhoneByAddress", ctx, "B9", "1").Return("", errors.New("store down"))

	term.SetAddress(ctx, "B7", "702")
	assert.Equal(t, "9876543210", term.Snapshot().Fulfillment.PhoneNo)

	term.SetAddress(ctx, "B9", "1")
	f := term.Snapshot().Fulfillment
	assert.Equal(t, "B9", f.BuildingNo)
	assert.Equal(t, "9876543210", f.PhoneNo)
}

func TestTerminal_SetDelivery_NoLookup(t *testing.T) {
	orders := new(MockOrderService)
	term := New(orders, zerolog.Nop())

	term.SetDelivery("9876543210", "B2", "101")

	f := term.Snapshot().Fulfillment
	assert.Equal(t, "9876543210", f.PhoneNo)
	assert.Equal(t, "B2", f.BuildingNo)
	assert.Equal(t, "101", f.FlatNo)
	orders.AssertNotCalled(t, "LookupAddressByPhone", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "LookupPhoneByAddress", mock.Anything, mock.Anything, mock.Anything)
}

func TestTerminal_Checkout(t *testing.T) {
	ctx := context.Background()
	dosa := dish("Dosa", 50)

	t.Run("success clears cart and details", func(t *testing.T) {
		orders := new(MockOrderService)
		term := New(orders, zerolog.Nop())
		term.ToggleItem(dosa)
		term.SetTable(4)

		placed := &model.Order{ID: uuid.New()}
		orders.On("PlaceOrder", ctx, mock.MatchedBy(func(req *model.PlaceOrderRequest) bool {
			return len(req.ItemIDs) == 1 && req.ItemIDs[0] == dosa.ID &&
				req.Fulfillment.TableNo != nil && *req.Fulfillment.TableNo == 4
		})).Return(placed, nil)

		order, err := term.Checkout(ctx)
		require.NoError(t, err)
		assert.Equal(t, placed.ID, order.ID)

		state := term.Snapshot()
		assert.Empty(t, state.Items)
		assert.Nil(t, state.Fulfillment.TableNo)
		assert.Equal(t, model.OrderTypeDineIn, state.Fulfillment.Type)
	})

	t.Run("failure keeps state", func(t *testing.T) {
		orders := new(MockOrderService)
		term := New(orders, zerolog.Nop())
		term.ToggleItem(dosa)

		orders.On("PlaceOrder", ctx, mock.Anything).Return(nil, model.ErrMissingTable)

		_, err := term.Checkout(ctx)
		assert.ErrorIs(t, err, model.ErrMissingTable)
		assert.Len(t, term.Snapshot().Items, 1)
	})
}
