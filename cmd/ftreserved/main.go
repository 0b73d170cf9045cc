package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/corebank/ftreserve/internal/config"
	"github.com/corebank/ftreserve/internal/db"
	"github.com/corebank/ftreserve/internal/gateway"
	"github.com/corebank/ftreserve/internal/handlers"
	"github.com/corebank/ftreserve/internal/metrics"
	"github.com/corebank/ftreserve/internal/service"
)

func main() {
	// Optional .env for local development; environment wins in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting ftreserve api",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"gateway_base_url", cfg.Gateway.BaseURL,
	)

	ctx := context.Background()
	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	gatewayClient := gateway.NewHTTPClient(&cfg.Gateway, m, logger)

	router := handlers.NewRouter(database, gatewayClient, cfg, m, logger)

	scheduler := startScheduler(database, gatewayClient, cfg, m, logger)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// startScheduler wires the periodic sweep and reconciliation jobs. Returns
// nil when the scheduler is disabled by configuration.
func startScheduler(
	database *db.DB,
	gatewayClient gateway.Client,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *cron.Cron {
	if !cfg.Scheduler.Enabled {
		logger.Info("background scheduler disabled")
		return nil
	}

	lifecycle := service.NewLifecycleEngine(database, gatewayClient, cfg.App.ReservationTTL, m, logger)
	reconciler := service.NewReconciler(database, gatewayClient, cfg.Gateway.Accounts, cfg.App.ReservationTTL, m, logger)

	scheduler := cron.New()

	if _, err := scheduler.AddFunc(cfg.Scheduler.SweepSpec, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := lifecycle.SweepExpired(sweepCtx, time.Now().UTC()); err != nil {
			logger.Error("scheduled sweep failed", "error", err)
		}
	}); err != nil {
		logger.Error("failed to schedule expiry sweep", "error", err, "spec", cfg.Scheduler.SweepSpec)
		os.Exit(1)
	}

	if _, err := scheduler.AddFunc(cfg.Scheduler.ReconcileSpec, func() {
		reconcileCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := reconciler.Run(reconcileCtx); err != nil {
			logger.Error("scheduled reconciliation failed", "error", err)
		}
	}); err != nil {
		logger.Error("failed to schedule reconciliation", "error", err, "spec", cfg.Scheduler.ReconcileSpec)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("background scheduler started",
		"sweep_spec", cfg.Scheduler.SweepSpec,
		"reconcile_spec", cfg.Scheduler.ReconcileSpec,
	)

	return scheduler
}
