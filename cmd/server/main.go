package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prasert/fleetcheck/internal"
	"github.com/prasert/fleetcheck/internal/handler"
	"github.com/prasert/fleetcheck/internal/metrics"
	"github.com/prasert/fleetcheck/internal/middleware"
	"github.com/prasert/fleetcheck/internal/service"
	"github.com/prasert/fleetcheck/internal/store"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize store
	st := store.New(db)

	// Reporting timezone for period window resolution
	loc := cfg.Location()

	// Initialize services
	assetService := service.NewAssetService(st, logger)
	transactionService := service.NewTransactionService(st, logger)
	dashboardService := service.NewDashboardService(st, logger, loc)

	// Background dashboard refresh keeps cached snapshots warm so the
	// dashboard endpoint stays cheap under polling.
	var refresher *service.Refresher
	if cfg.RefreshEnabled {
		refresher = service.NewRefresher(dashboardService, cfg.RefreshInterval, logger)
		refresher.Start(ctx)
		defer refresher.Stop()
		logger.Info("Dashboard refresh started", "interval", cfg.RefreshInterval)
	}

	// Initialize handlers
	assetHandler := handler.NewAssetHandler(assetService, logger)
	transactionHandler := handler.NewTransactionHandler(transactionService, loc, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, refresher, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics, behind basic auth when credentials are set
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// API routes
	assetHandler.RegisterRoutes(mux)
	transactionHandler.RegisterRoutes(mux)
	dashboardHandler.RegisterRoutes(mux)

	// Wrap the whole mux in request logging and metrics collection
	logging := middleware.NewRequestLoggingMiddleware(logger)
	root := middleware.Stack(logging.Handler, metrics.Middleware)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "timezone", cfg.ReportTimezone)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
