// Package handlers implements HTTP handlers for the settlement API.
package handlers

import (
	"log/slog"

	"github.com/corebank/ftreserve/internal/service"
)

// Handler serves the reservation endpoints
type Handler struct {
	lifecycle     service.Lifecycle
	statusQuery   service.StatusQuerier
	reconciler    service.Reconciling
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	lifecycle service.Lifecycle,
	statusQuery service.StatusQuerier,
	reconciler service.Reconciling,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		lifecycle:     lifecycle,
		statusQuery:   statusQuery,
		reconciler:    reconciler,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
