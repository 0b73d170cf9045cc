package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/corebank/ftreserve/internal/models"
)

// TransactionRepository defines the interface for ledger transaction data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// transactionRepository implements TransactionRepository
type transactionRepository struct {
	db Querier
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(database Querier) TransactionRepository {
	return &transactionRepository{db: database}
}

// Create inserts a ledger transaction. A second settlement for the same
// reservation violates the unique constraint and returns
// models.ErrDuplicateTransaction.
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, reservation_code, type, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.ReservationCode,
		txn.Type,
		txn.Amount,
		txn.Currency,
		txn.CreatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return models.ErrDuplicateTransaction
	}
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a ledger transaction by its UUID
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT id, reservation_code, type, amount, currency, created_at
		FROM transactions
		WHERE id = $1
	`

	var txn models.Transaction
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&txn.ID,
		&txn.ReservationCode,
		&txn.Type,
		&txn.Amount,
		&txn.Currency,
		&txn.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by id: %w", err)
	}

	return &txn, nil
}
