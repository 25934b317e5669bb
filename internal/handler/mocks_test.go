package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/poller"
	"restaurant-pos/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderService is a mock implementation of OrderService.
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

// MockMenuService is a mock implementation of MenuService.
type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) List(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuService) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuService) AddOrUpdate(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) ToggleAvailability(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingsService is a mock implementation of SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (model.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Settings), args.Error(1)
}

func (m *MockSettingsService) Save(ctx context.Context, tableCount int) (model.Settings, error) {
	args := m.Called(ctx, tableCount)
	return args.Get(0).(model.Settings), args.Error(1)
}

// MockDashboardService is a mock implementation of DashboardService.
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Dashboard(ctx context.Context, filter metrics.Filter) (*metrics.Dashboard, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metrics.Dashboard), args.Error(1)
}

// MockSessionManager is a mock implementation of SessionManager.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) SignIn(ctx context.Context, creds model.Credentials) (*session.Session, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionManager) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionManager) CreateStaff(ctx context.Context, creds model.Credentials) (*model.User, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// fakeSales serves a fixed snapshot and counts refreshes.
type fakeSales struct {
	mu        sync.Mutex
	snap      poller.Snapshot[float64]
	refreshed poller.Snapshot[float64]
	refreshes int
}

func (f *fakeSales) Snapshot() poller.Snapshot[float64] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSales) Refresh(context.Context) poller.Snapshot[float64] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	f.snap = f.refreshed
	return f.snap
}

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// withSession attaches a signed-in session to req.
func withSession(req *http.Request, role model.Role) (*http.Request, *session.Session) {
	s := &session.Session{
		ID:        uuid.NewString(),
		Token:     "token",
		UserID:    uuid.New(),
		Email:     "op@example.com",
		Role:      role,
		ExpiresAt: testNow.Add(time.Hour),
	}
	return req.WithContext(middleware.WithSession(req.Context(), s)), s
}

func newRequest(method, target string, body []byte, id string) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req
}
