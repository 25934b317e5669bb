package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/events"
	"restaurant-pos/internal/handler"
	"restaurant-pos/internal/poller"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/router"
	"restaurant-pos/internal/service"
	"restaurant-pos/internal/session"
	"restaurant-pos/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "restaurant-pos-api")
	logger.Info().Msg("starting restaurant POS API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)

	// Order events go to RabbitMQ when enabled
	var publisher events.Publisher = events.NewNopPublisher()
	if cfg.RabbitMQ.Enabled {
		rmq, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to connect to RabbitMQ, order events disabled")
		} else {
			publisher = rmq
		}
	} else {
		logger.Info().Msg("order events disabled (RabbitMQ disabled)")
	}
	defer publisher.Close()

	// Initialize services
	loc := cfg.Orders.Location()
	menuService := service.NewMenuService(menuRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, cfg.Orders.DefaultTableCount, logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, settingsService, publisher, cfg.Orders, logger)
	dashboardService := service.NewDashboardService(orderRepo, loc, logger)

	sessions := session.NewManager(userRepo, profileRepo, cfg.Auth, logger)
	terminals := terminal.NewRegistry(orderService, sessions, logger)
	defer terminals.Close()

	// Keep the sidebar sales total fresh in the background
	sales := poller.New[float64]("sales_total", cfg.Polling.SalesInterval, orderService.TotalSales, logger)
	sales.Start(ctx)
	defer sales.Stop()

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(sessions, logger),
		Menu:     handler.NewMenuHandler(menuService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Cart:     handler.NewCartHandler(terminals, menuService, logger),
		Metrics:  handler.NewMetricsHandler(dashboardService, sales, loc, logger),
		Settings: handler.NewSettingsHandler(settingsService, logger),
	}

	// Initialize router
	mux := router.New(handlers, sessions, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
