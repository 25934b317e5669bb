package service

import (
	"context"
	"fmt"
	"time"

	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/repository"

	"github.com/rs/zerolog"
)

// dashboardService implements DashboardService.
type dashboardService struct {
	orderRepo repository.OrderRepository
	location  *time.Location
	logger    zerolog.Logger
}

// NewDashboardService creates a dashboard service that buckets months in loc.
func NewDashboardService(orderRepo repository.OrderRepository, loc *time.Location, logger zerolog.Logger) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		orderRepo: orderRepo,
		location:  loc,
		logger:    logger.With().Str("service", "dashboard").Logger(),
	}
}

// Dashboard fetches all orders and derives every metric for filter.
func (s *dashboardService) Dashboard(ctx context.Context, filter metrics.Filter) (*metrics.Dashboard, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	dash := metrics.Compute(orders, metrics.Options{
		Filter:   filter,
		Location: s.location,
	})

	s.logger.Debug().
		Int("orders", len(orders)).
		Int("matched", dash.OrderCount).
		Msg("dashboard computed")

	return &dash, nil
}
