package handlers

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corebank/ftreserve/internal/api"
	"github.com/corebank/ftreserve/internal/config"
	"github.com/corebank/ftreserve/internal/db"
	"github.com/corebank/ftreserve/internal/gateway"
	"github.com/corebank/ftreserve/internal/metrics"
	"github.com/corebank/ftreserve/internal/middleware"
	"github.com/corebank/ftreserve/internal/repository"
	"github.com/corebank/ftreserve/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	gw gateway.Client,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	lifecycle := service.NewLifecycleEngine(database, gw, cfg.App.ReservationTTL, m, logger)
	statusQuery := service.NewStatusQueryService(database)
	reconciler := service.NewReconciler(database, gw, cfg.Gateway.Accounts, cfg.App.ReservationTTL, m, logger)

	handler := NewHandler(lifecycle, statusQuery, reconciler, database, logger)

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)

	mux.HandleFunc("GET /health", handler.GetHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/reservations", handler.CreateReservation)
	mux.HandleFunc("GET /api/v1/reservations/{code}", handler.GetReservation)
	mux.HandleFunc("POST /api/v1/reservations/{code}/confirm", handler.ConfirmReservation)
	mux.HandleFunc("POST /api/v1/reservations/{code}/cancel", handler.CancelReservation)
	mux.HandleFunc("GET /api/v1/accounts/{accountId}/reservations", handler.GetPendingReservations)

	mux.HandleFunc("POST /api/v1/admin/sweep", handler.SweepExpired)
	mux.HandleFunc("POST /api/v1/admin/reconcile", handler.TriggerReconciliation)

	var finalHandler http.Handler = mux

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)

	return finalHandler
}
