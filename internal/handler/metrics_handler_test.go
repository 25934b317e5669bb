package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/poller"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name       string
		query      string
		wantStatus string
		wantFrom   *time.Time
		wantTo     *time.Time
		wantErr    bool
	}{
		{name: "Empty", query: ""},
		{name: "All status", query: "?status=all"},
		{name: "Status", query: "?status=completed", wantStatus: "completed"},
		{
			name:     "Date-only range covers the last day",
			query:    "?from=2024-01-01&to=2024-01-31",
			wantFrom: ptrTime(time.Date(2024, 1, 1, 0, 0, 0, 0, kolkata)),
			wantTo:   ptrTime(time.Date(2024, 2, 1, 0, 0, 0, 0, kolkata).Add(-time.Nanosecond)),
		},
		{
			name:     "RFC 3339 instants are taken as given",
			query:    "?from=2024-01-01T00:00:00Z&to=2024-01-02T00:00:00Z",
			wantFrom: ptrTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantTo:   ptrTime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		},
		{name: "Bad date", query: "?from=01/02/2024", wantErr: true},
		{name: "Inverted range", query: "?from=2024-02-01&to=2024-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/metrics/dashboard"+tt.query, nil)

			f, err := ParseFilter(req, kolkata)
			if tt.wantErr {
				assert.True(t, model.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, f.Status)
			assertTime(t, tt.wantFrom, f.From)
			assertTime(t, tt.wantTo, f.To)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func assertTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
}

func TestMetricsHandler_Dashboard(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("success", func(t *testing.T) {
		dashboards := new(MockDashboardService)
		handler := NewMetricsHandler(dashboards, &fakeSales{}, time.UTC, logger)

		d := &metrics.Dashboard{OrderCount: 2, TotalRevenue: 175}
		dashboards.On("Dashboard", mock.Anything, mock.MatchedBy(func(f metrics.Filter) bool {
			return f.Status == "received" && f.From != nil && f.To == nil
		})).Return(d, nil)

		w := httptest.NewRecorder()
		handler.Dashboard(w, newRequest(http.MethodGet, "/api/metrics/dashboard?status=received&from=2024-01-01", nil, ""))

		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 175.0, got["total_revenue"])
		dashboards.AssertExpectations(t)
	})

	t.Run("bad filter", func(t *testing.T) {
		dashboards := new(MockDashboardService)
		handler := NewMetricsHandler(dashboards, &fakeSales{}, time.UTC, logger)

		w := httptest.NewRecorder()
		handler.Dashboard(w, newRequest(http.MethodGet, "/api/metrics/dashboard?to=yesterday", nil, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		dashboards.AssertNotCalled(t, "Dashboard", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		dashboards := new(MockDashboardService)
		handler := NewMetricsHandler(dashboards, &fakeSales{}, time.UTC, logger)
		dashboards.On("Dashboard", mock.Anything, mock.Anything).
			Return(nil, model.NewStoreError("select", "orders", errors.New("timeout")))

		w := httptest.NewRecorder()
		handler.Dashboard(w, newRequest(http.MethodGet, "/api/metrics/dashboard", nil, ""))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestMetricsHandler_SalesTotal(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("polled value", func(t *testing.T) {
		sales := &fakeSales{snap: poller.Snapshot[float64]{Value: 1250, UpdatedAt: testNow}}
		handler := NewMetricsHandler(new(MockDashboardService), sales, time.UTC, logger)

		w := httptest.NewRecorder()
		handler.SalesTotal(w, newRequest(http.MethodGet, "/api/sales/total", nil, ""))

		require.Equal(t, http.StatusOK, w.Code)
		var resp SalesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1250.0, resp.Total)
		assert.False(t, resp.Stale)
		assert.Zero(t, sales.refreshes)
	})

	t.Run("stale after failed poll", func(t *testing.T) {
		sales := &fakeSales{snap: poller.Snapshot[float64]{Value: 900, UpdatedAt: testNow, Err: errors.New("timeout")}}
		handler := NewMetricsHandler(new(MockDashboardService), sales, time.UTC, logger)

		w := httptest.NewRecorder()
		handler.SalesTotal(w, newRequest(http.MethodGet, "/api/sales/total", nil, ""))

		require.Equal(t, http.StatusOK, w.Code)
		var resp SalesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 900.0, resp.Total)
		assert.True(t, resp.Stale)
	})

	t.Run("loads on demand before first poll", func(t *testing.T) {
		sales := &fakeSales{refreshed: poller.Snapshot[float64]{Value: 75, UpdatedAt: testNow}}
		handler := NewMetricsHandler(new(MockDashboardService), sales, time.UTC, logger)

		w := httptest.NewRecorder()
		handler.SalesTotal(w, newRequest(http.MethodGet, "/api/sales/total", nil, ""))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, sales.refreshes)
	})

	t.Run("first load fails", func(t *testing.T) {
		sales := &fakeSales{refreshed: poller.Snapshot[float64]{
			Err: model.NewStoreError("select", "orders", errors.New("timeout")),
		}}
		handler := NewMetricsHandler(new(MockDashboardService), sales, time.UTC, logger)

		w := httptest.NewRecorder()
		handler.SalesTotal(w, newRequest(http.MethodGet, "/api/sales/total", nil, ""))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
