package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/ftreserve/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Lifecycle drives reservation status transitions
type Lifecycle interface {
	Create(ctx context.Context, params CreateReservationParams) (*models.Reservation, error)
	Confirm(ctx context.Context, code string) (*models.Reservation, error)
	Cancel(ctx context.Context, code string) (*models.Reservation, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	IsExpired(ctx context.Context, code string, now time.Time) (bool, error)
}

// StatusQuerier serves read-only reservation projections
type StatusQuerier interface {
	GetPending(ctx context.Context, accountRef uuid.UUID) ([]*models.Reservation, error)
	FindByCode(ctx context.Context, code string) (*models.Reservation, error)
}

// Reconciling runs settlement reconciliation passes
type Reconciling interface {
	Run(ctx context.Context) (*Report, error)
}

// Ensure concrete types implement interfaces
var (
	_ Lifecycle     = (*LifecycleEngine)(nil)
	_ StatusQuerier = (*StatusQueryService)(nil)
	_ Reconciling   = (*Reconciler)(nil)
)
