package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corebank/ftreserve/internal/models"
)

// IdempotencyRepository defines the interface for idempotency key storage
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

// idempotencyRepository implements IdempotencyRepository
type idempotencyRepository struct {
	db Querier
}

// NewIdempotencyRepository creates a new IdempotencyRepository
func NewIdempotencyRepository(database Querier) IdempotencyRepository {
	return &idempotencyRepository{db: database}
}

// Get retrieves a cached response for the key/path pair, or nil if unseen
func (r *idempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	query := `
		SELECT key, request_path, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND request_path = $2
	`

	var idemKey models.IdempotencyKey
	err := r.db.QueryRowContext(ctx, query, key, requestPath).Scan(
		&idemKey.Key,
		&idemKey.RequestPath,
		&idemKey.ResponseStatus,
		&idemKey.ResponseBody,
		&idemKey.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find idempotency key: %w", err)
	}

	return &idemKey, nil
}

// Store persists a response for replay. Conflicting concurrent stores keep
// the first writer's response.
func (r *idempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (key, request_path, response_status, response_body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key, request_path) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		idemKey.Key,
		idemKey.RequestPath,
		idemKey.ResponseStatus,
		idemKey.ResponseBody,
		idemKey.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}
