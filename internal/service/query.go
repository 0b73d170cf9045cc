package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/corebank/ftreserve/internal/db"
	"github.com/corebank/ftreserve/internal/models"
	"github.com/corebank/ftreserve/internal/repository"
)

// StatusQueryService answers read-only reservation questions for the
// presentation layer. It never mutates state.
type StatusQueryService struct {
	db *db.DB
}

// NewStatusQueryService creates a new StatusQueryService
func NewStatusQueryService(database *db.DB) *StatusQueryService {
	return &StatusQueryService{db: database}
}

// GetPending returns the pending reservations of an account ordered by
// ascending expiry, soonest-to-expire first
func (s *StatusQueryService) GetPending(ctx context.Context, accountRef uuid.UUID) ([]*models.Reservation, error) {
	repo := repository.NewReservationRepository(s.db)

	reservations, err := repo.FindPendingByAccount(ctx, accountRef)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to query pending reservations: %v", err),
		}
	}

	return reservations, nil
}

// FindByCode returns a reservation by its unique code
func (s *StatusQueryService) FindByCode(ctx context.Context, code string) (*models.Reservation, error) {
	repo := repository.NewReservationRepository(s.db)

	reservation, err := repo.FindByCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeReservationNotFound,
			Message: fmt.Sprintf("reservation %s not found", code),
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to find reservation: %v", err),
		}
	}

	return reservation, nil
}
