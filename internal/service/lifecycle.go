package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/db"
	"github.com/corebank/ftreserve/internal/gateway"
	"github.com/corebank/ftreserve/internal/metrics"
	"github.com/corebank/ftreserve/internal/models"
	"github.com/corebank/ftreserve/internal/repository"
)

const lockStripes = 64

// Metadata keys recording what happened on the last remote confirmation
// attempt. A reservation left pending after an ambiguous outcome keeps the
// marker so a later operator-authorized retry is visible in the logs.
const (
	metaLastConfirmOutcome = "last_confirm_outcome"
	metaLastConfirmAt      = "last_confirm_at"
)

// CreateReservationParams carries the caller-supplied fields of a new
// reservation
type CreateReservationParams struct {
	ExpiresAt         *time.Time
	Metadata          map[string]any
	ReservationCode   string
	ExternalAccountID string
	Currency          models.Currency
	Source            models.CounterpartyInfo
	Destination       models.CounterpartyInfo
	Amount            decimal.Decimal
	AccountRef        uuid.UUID
}

// LifecycleEngine is the sole writer of reservation status transitions.
// Transitions are compare-and-set at the store level, and confirm/cancel are
// additionally serialized per reservation code so the remote confirmation
// call is issued at most once per logical attempt.
type LifecycleEngine struct {
	db      *db.DB
	gateway gateway.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	ttl     time.Duration
	locks   [lockStripes]sync.Mutex
}

// NewLifecycleEngine creates a new LifecycleEngine
func NewLifecycleEngine(
	database *db.DB,
	gw gateway.Client,
	reservationTTL time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *LifecycleEngine {
	return &LifecycleEngine{
		db:      database,
		gateway: gw,
		logger:  logger,
		metrics: m,
		ttl:     reservationTTL,
	}
}

// Create validates and inserts a new pending reservation
func (e *LifecycleEngine) Create(ctx context.Context, params CreateReservationParams) (*models.Reservation, error) {
	if err := validateCreate(params); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeValidation,
			Message: err.Error(),
		}
	}

	now := time.Now().UTC()
	expiresAt := now.Add(e.ttl)
	if params.ExpiresAt != nil {
		expiresAt = params.ExpiresAt.UTC()
	}

	reservation := &models.Reservation{
		ReservationCode:   params.ReservationCode,
		AccountRef:        params.AccountRef,
		ExternalAccountID: params.ExternalAccountID,
		Amount:            params.Amount,
		Currency:          params.Currency,
		Status:            models.ReservationStatusPending,
		Source:            params.Source,
		Destination:       params.Destination,
		Metadata:          params.Metadata,
		CreatedAt:         now,
		ExpiresAt:         expiresAt,
	}

	repo := repository.NewReservationRepository(e.db)
	if err := repo.Create(ctx, reservation); err != nil {
		if errors.Is(err, models.ErrDuplicateReservation) {
			return nil, &ServiceError{
				Code:    ErrCodeDuplicateCode,
				Message: fmt.Sprintf("reservation %s already exists", params.ReservationCode),
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to create reservation: %v", err),
		}
	}

	e.logger.Info("reservation created",
		"reservation_code", reservation.ReservationCode,
		"amount", reservation.Amount.String(),
		"currency", string(reservation.Currency),
		"expires_at", reservation.ExpiresAt,
	)

	return reservation, nil
}

// Confirm releases the funds held by a pending reservation. The remote
// confirmation is attempted at most once: an ambiguous or transport failure
// leaves the record pending and is surfaced to the caller, never retried
// here.
func (e *LifecycleEngine) Confirm(ctx context.Context, code string) (*models.Reservation, error) {
	lock := e.lockFor(code)
	lock.Lock()
	defer lock.Unlock()

	repo := repository.NewReservationRepository(e.db)

	reservation, err := e.loadConfirmable(ctx, repo, code, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if outcome, ok := reservation.Metadata[metaLastConfirmOutcome]; ok {
		e.logger.Warn("confirmation retry after earlier failed attempt",
			"reservation_code", code,
			"previous_outcome", outcome,
		)
	}

	result, err := e.gateway.ConfirmReservation(ctx, gateway.ConfirmRequest{
		ReservationCode: reservation.ReservationCode,
		AccountNumber:   reservation.ExternalAccountID,
		Amount:          reservation.Amount,
		Timestamp:       time.Now().UTC(),
	})
	if err != nil {
		return nil, e.handleConfirmFailure(ctx, repo, reservation, err)
	}

	e.logger.Info("remote confirmation accepted",
		"reservation_code", code,
		"remote_status", result.StatusCode,
	)

	return e.settleConfirmed(ctx, reservation)
}

// loadConfirmable fetches a reservation and enforces the confirm
// preconditions: status pending and not past expiry. Rejections happen here,
// before any external call.
func (e *LifecycleEngine) loadConfirmable(
	ctx context.Context,
	repo repository.ReservationRepository,
	code string,
	now time.Time,
) (*models.Reservation, error) {
	reservation, err := e.load(ctx, repo, code)
	if err != nil {
		return nil, err
	}

	if reservation.Status != models.ReservationStatusPending {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidTransition,
			Message: fmt.Sprintf("reservation %s is %s and cannot be confirmed", code, reservation.Status),
		}
	}

	if reservation.IsExpired(now) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidTransition,
			Message: fmt.Sprintf("reservation %s expired at %s", code, reservation.ExpiresAt.Format(time.RFC3339)),
		}
	}

	return reservation, nil
}

// handleConfirmFailure applies the local state effect of a failed remote
// confirmation per the gateway outcome
func (e *LifecycleEngine) handleConfirmFailure(
	ctx context.Context,
	repo repository.ReservationRepository,
	reservation *models.Reservation,
	gatewayErr error,
) error {
	var gwErr *gateway.Error
	if !errors.As(gatewayErr, &gwErr) {
		return &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("unexpected gateway failure: %v", gatewayErr),
			Err:     gatewayErr,
		}
	}

	e.recordConfirmOutcome(ctx, repo, reservation, gwErr.Outcome)

	switch gwErr.Outcome {
	case gateway.OutcomeRemoteRejected:
		// An explicit rejection means the reservation cannot be honored.
		now := time.Now().UTC()
		if err := repo.CancelPending(ctx, reservation.ReservationCode, now); err != nil {
			e.logger.Error("failed to cancel rejected reservation",
				"reservation_code", reservation.ReservationCode,
				"error", err,
			)
		}
		return &ServiceError{
			Code:    ErrCodeGatewayRejected,
			Message: fmt.Sprintf("remote rejected confirmation of %s; reservation cancelled", reservation.ReservationCode),
			Err:     gwErr,
		}

	case gateway.OutcomeAmbiguous:
		return &ServiceError{
			Code:    ErrCodeGatewayAmbiguous,
			Message: fmt.Sprintf("confirmation outcome for %s is unknown; reservation left pending", reservation.ReservationCode),
			Err:     gwErr,
		}

	case gateway.OutcomeMalformedResponse:
		return &ServiceError{
			Code:    ErrCodeGatewayMalformed,
			Message: fmt.Sprintf("unparsable confirmation response for %s; reservation left pending", reservation.ReservationCode),
			Err:     gwErr,
		}

	default:
		return &ServiceError{
			Code:    ErrCodeGatewayUnavailable,
			Message: fmt.Sprintf("confirmation of %s never reached the remote side; reservation left pending", reservation.ReservationCode),
			Err:     gwErr,
		}
	}
}

// recordConfirmOutcome stamps the outcome of the last confirmation attempt
// into the reservation metadata. Best effort; the authoritative state effect
// is the status column.
func (e *LifecycleEngine) recordConfirmOutcome(
	ctx context.Context,
	repo repository.ReservationRepository,
	reservation *models.Reservation,
	outcome gateway.Outcome,
) {
	metadata := make(map[string]any, len(reservation.Metadata)+2)
	for k, v := range reservation.Metadata {
		metadata[k] = v
	}
	metadata[metaLastConfirmOutcome] = string(outcome)
	metadata[metaLastConfirmAt] = time.Now().UTC().Format(time.RFC3339)

	if err := repo.UpdateMetadata(ctx, reservation.ReservationCode, metadata); err != nil {
		e.logger.Error("failed to record confirmation outcome",
			"reservation_code", reservation.ReservationCode,
			"outcome", string(outcome),
			"error", err,
		)
	}
}

// settleConfirmed commits the local effect of a definite remote success:
// ledger transaction, status flip and timestamp in one database transaction
func (e *LifecycleEngine) settleConfirmed(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to start transaction: %v", err),
		}
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	txTransactionRepo := repository.NewTransactionRepository(tx)
	txReservationRepo := repository.NewReservationRepository(tx)

	txn, err := e.performSettlement(ctx, txReservationRepo, txTransactionRepo, reservation)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to commit transaction: %v", err),
		}
	}

	confirmed := *reservation
	confirmed.Status = models.ReservationStatusConfirmed
	confirmed.ConfirmedAt = &txn.CreatedAt
	confirmed.TransactionID = &txn.ID

	return &confirmed, nil
}

// performSettlement contains the core settlement write logic
func (e *LifecycleEngine) performSettlement(
	ctx context.Context,
	reservationRepo repository.ReservationRepository,
	transactionRepo repository.TransactionRepository,
	reservation *models.Reservation,
) (*models.Transaction, error) {
	now := time.Now().UTC()

	txn := &models.Transaction{
		ID:              uuid.New(),
		ReservationCode: reservation.ReservationCode,
		Type:            models.TransactionTypeSettlement,
		Amount:          reservation.Amount,
		Currency:        reservation.Currency,
		CreatedAt:       now,
	}

	if err := transactionRepo.Create(ctx, txn); err != nil {
		if errors.Is(err, models.ErrDuplicateTransaction) {
			return nil, &ServiceError{
				Code:    ErrCodeInvalidTransition,
				Message: fmt.Sprintf("reservation %s has already been settled", reservation.ReservationCode),
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to create settlement transaction: %v", err),
		}
	}

	if err := reservationRepo.ConfirmPending(ctx, reservation.ReservationCode, now, txn.ID); err != nil {
		if errors.Is(err, models.ErrStaleStatus) {
			// The remote side accepted but the local record moved under us.
			// Surfaced loudly: this needs manual reconciliation.
			e.logger.Error("reservation transitioned concurrently after remote confirmation",
				"reservation_code", reservation.ReservationCode,
			)
			return nil, &ServiceError{
				Code:    ErrCodeInvalidTransition,
				Message: fmt.Sprintf("reservation %s is no longer pending", reservation.ReservationCode),
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to confirm reservation: %v", err),
		}
	}

	return txn, nil
}

// Cancel transitions a pending reservation to cancelled. Purely local; no
// external call is involved.
func (e *LifecycleEngine) Cancel(ctx context.Context, code string) (*models.Reservation, error) {
	lock := e.lockFor(code)
	lock.Lock()
	defer lock.Unlock()

	repo := repository.NewReservationRepository(e.db)
	return e.performCancel(ctx, repo, code)
}

// performCancel contains the core cancellation logic
func (e *LifecycleEngine) performCancel(
	ctx context.Context,
	repo repository.ReservationRepository,
	code string,
) (*models.Reservation, error) {
	reservation, err := e.load(ctx, repo, code)
	if err != nil {
		return nil, err
	}

	if reservation.Status != models.ReservationStatusPending {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidTransition,
			Message: fmt.Sprintf("reservation %s is %s and cannot be cancelled", code, reservation.Status),
		}
	}

	now := time.Now().UTC()
	if err := repo.CancelPending(ctx, code, now); err != nil {
		if errors.Is(err, models.ErrStaleStatus) {
			return nil, &ServiceError{
				Code:    ErrCodeInvalidTransition,
				Message: fmt.Sprintf("reservation %s is no longer pending", code),
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to cancel reservation: %v", err),
		}
	}

	cancelled := *reservation
	cancelled.Status = models.ReservationStatusCancelled
	cancelled.CancelledAt = &now

	e.logger.Info("reservation cancelled", "reservation_code", code)

	return &cancelled, nil
}

// SweepExpired bulk-transitions every pending reservation past its expiry.
// Idempotent; safe to run concurrently with confirms and cancels because the
// store transition is compare-and-set.
func (e *LifecycleEngine) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	repo := repository.NewReservationRepository(e.db)

	count, err := repo.SweepExpired(ctx, now)
	if err != nil {
		return 0, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to sweep expired reservations: %v", err),
		}
	}

	e.metrics.RecordSweep(count)
	if count > 0 {
		e.logger.Info("expired reservations swept", "count", count, "as_of", now)
	}

	return count, nil
}

// IsExpired reports whether the reservation's expiry has passed at the given
// instant, independent of its stored status
func (e *LifecycleEngine) IsExpired(ctx context.Context, code string, now time.Time) (bool, error) {
	repo := repository.NewReservationRepository(e.db)

	reservation, err := e.load(ctx, repo, code)
	if err != nil {
		return false, err
	}

	return reservation.IsExpired(now), nil
}

func (e *LifecycleEngine) load(ctx context.Context, repo repository.ReservationRepository, code string) (*models.Reservation, error) {
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
			Message: fmt.Sprintf("failed to load reservation: %v", err),
		}
	}
	return reservation, nil
}

func (e *LifecycleEngine) lockFor(code string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(code)) //nolint:errcheck // fnv write cannot fail
	return &e.locks[h.Sum32()%lockStripes]
}

func validateCreate(params CreateReservationParams) error {
	if err := ValidateReservationCode(params.ReservationCode); err != nil {
		return err
	}
	if err := ValidateAmount(params.Amount); err != nil {
		return err
	}
	if err := ValidateCurrency(params.Currency); err != nil {
		return err
	}
	if err := ValidateExternalAccountID(params.ExternalAccountID); err != nil {
		return err
	}
	if params.AccountRef == uuid.Nil {
		return fmt.Errorf("account reference cannot be empty")
	}
	return nil
}
