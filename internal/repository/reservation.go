// Package repository provides data access layer implementations for the
// reservation settlement core.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/models"
)

// Querier is the subset of database/sql operations the repositories need.
// Both *db.DB and *sql.Tx satisfy it, so repositories can run inside or
// outside an explicit transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReservationRepository defines the interface for reservation data access
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	FindByCode(ctx context.Context, code string) (*models.Reservation, error)
	FindPendingByAccount(ctx context.Context, accountRef uuid.UUID) ([]*models.Reservation, error)
	FindPendingByExternalMatch(ctx context.Context, externalAccountID string, amount decimal.Decimal, currency models.Currency) (*models.Reservation, error)
	ConfirmPending(ctx context.Context, code string, confirmedAt time.Time, transactionID uuid.UUID) error
	CancelPending(ctx context.Context, code string, cancelledAt time.Time) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	UpdateMetadata(ctx context.Context, code string, metadata map[string]any) error
}

// reservationRepository implements ReservationRepository
type reservationRepository struct {
	db Querier
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(database Querier) ReservationRepository {
	return &reservationRepository{db: database}
}

const reservationColumns = `
	reservation_code, account_ref, external_account_id, amount, currency, status,
	source_name, source_account_number, source_bank_name, source_country,
	dest_name, dest_account_number, dest_bank_name, dest_country,
	transaction_id, metadata, created_at, expires_at, confirmed_at, cancelled_at
`

// Create inserts a new reservation. A code collision returns
// models.ErrDuplicateReservation.
func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	metadata, err := json.Marshal(reservation.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = r.db.ExecContext(ctx, query,
		reservation.ReservationCode,
		reservation.AccountRef,
		reservation.ExternalAccountID,
		reservation.Amount,
		reservation.Currency,
		reservation.Status,
		reservation.Source.Name,
		reservation.Source.AccountNumber,
		reservation.Source.BankName,
		reservation.Source.Country,
		reservation.Destination.Name,
		reservation.Destination.AccountNumber,
		reservation.Destination.BankName,
		reservation.Destination.Country,
		reservation.TransactionID,
		metadata,
		reservation.CreatedAt,
		reservation.ExpiresAt,
		reservation.ConfirmedAt,
		reservation.CancelledAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return models.ErrDuplicateReservation
	}
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

// FindByCode retrieves a reservation by its unique code
func (r *reservationRepository) FindByCode(ctx context.Context, code string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_code = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, code))
}

// FindPendingByAccount returns all pending reservations for an account,
// soonest expiry first
func (r *reservationRepository) FindPendingByAccount(ctx context.Context, accountRef uuid.UUID) ([]*models.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE account_ref = $1 AND status = $2
		ORDER BY expires_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, accountRef, models.ReservationStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reservations: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var reservations []*models.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending reservations: %w", err)
	}

	return reservations, nil
}

// FindPendingByExternalMatch is the reconciliation fallback lookup for
// external records arriving without a reservation code
func (r *reservationRepository) FindPendingByExternalMatch(
	ctx context.Context,
	externalAccountID string,
	amount decimal.Decimal,
	currency models.Currency,
) (*models.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE external_account_id = $1 AND amount = $2 AND currency = $3 AND status = $4
		ORDER BY expires_at ASC
		LIMIT 1
	`

	return scanReservation(r.db.QueryRowContext(ctx, query,
		externalAccountID, amount, currency, models.ReservationStatusPending))
}

// ConfirmPending flips a pending reservation to confirmed, setting the
// confirmation timestamp and ledger transaction link in one statement.
// The WHERE clause on status makes the transition a compare-and-set:
// a concurrent transition wins and this call returns models.ErrStaleStatus.
func (r *reservationRepository) ConfirmPending(ctx context.Context, code string, confirmedAt time.Time, transactionID uuid.UUID) error {
	query := `
		UPDATE reservations
		SET status = $3, confirmed_at = $4, transaction_id = $5
		WHERE reservation_code = $1 AND status = $2
	`

	return r.execTransition(ctx, query,
		code, models.ReservationStatusPending,
		models.ReservationStatusConfirmed, confirmedAt, transactionID)
}

// CancelPending flips a pending reservation to cancelled via compare-and-set
func (r *reservationRepository) CancelPending(ctx context.Context, code string, cancelledAt time.Time) error {
	query := `
		UPDATE reservations
		SET status = $3, cancelled_at = $4
		WHERE reservation_code = $1 AND status = $2
	`

	return r.execTransition(ctx, query,
		code, models.ReservationStatusPending,
		models.ReservationStatusCancelled, cancelledAt)
}

func (r *reservationRepository) execTransition(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to transition reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrStaleStatus
	}

	return nil
}

// SweepExpired bulk-transitions every pending reservation past its expiry.
// Idempotent: records already swept no longer match the WHERE clause.
func (r *reservationRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE reservations
		SET status = $3
		WHERE status = $1 AND expires_at < $2
	`

	result, err := r.db.ExecContext(ctx, query,
		models.ReservationStatusPending, now, models.ReservationStatusExpired)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired reservations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// UpdateMetadata replaces the free-form metadata bag of a reservation
func (r *reservationRepository) UpdateMetadata(ctx context.Context, code string, metadata map[string]any) error {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET metadata = $2 WHERE reservation_code = $1`,
		code, payload)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var reservation models.Reservation
	var metadata []byte

	err := row.Scan(
		&reservation.ReservationCode,
		&reservation.AccountRef,
		&reservation.ExternalAccountID,
		&reservation.Amount,
		&reservation.Currency,
		&reservation.Status,
		&reservation.Source.Name,
		&reservation.Source.AccountNumber,
		&reservation.Source.BankName,
		&reservation.Source.Country,
		&reservation.Destination.Name,
		&reservation.Destination.AccountNumber,
		&reservation.Destination.BankName,
		&reservation.Destination.Country,
		&reservation.TransactionID,
		&metadata,
		&reservation.CreatedAt,
		&reservation.ExpiresAt,
		&reservation.ConfirmedAt,
		&reservation.CancelledAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan reservation: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &reservation.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &reservation, nil
}
