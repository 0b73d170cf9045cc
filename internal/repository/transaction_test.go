package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ftreserve/internal/models"
)

func newTransactionMockDB(t *testing.T) (TransactionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTransactionRepository(db), mock
}

func settlementTransaction() *models.Transaction {
	return &models.Transaction{
		ID:              uuid.New(),
		ReservationCode: "RSV-1",
		Type:            models.TransactionTypeSettlement,
		Amount:          decimal.NewFromFloat(125.50),
		Currency:        models.CurrencyUSD,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestTransactionRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		repo, mock := newTransactionMockDB(t)

		mock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), settlementTransaction())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second settlement for the same reservation is a duplicate", func(t *testing.T) {
		repo, mock := newTransactionMockDB(t)

		mock.ExpectExec("INSERT INTO transactions").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), settlementTransaction())

		assert.ErrorIs(t, err, models.ErrDuplicateTransaction)
	})
}

func TestTransactionRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newTransactionMockDB(t)
		id := uuid.New()
		now := time.Now().UTC()

		rows := sqlmock.NewRows([]string{"id", "reservation_code", "type", "amount", "currency", "created_at"}).
			AddRow(id.String(), "RSV-1", "SETTLEMENT", "125.50", "USD", now)
		mock.ExpectQuery("SELECT (.+) FROM transactions").
			WithArgs(id).
			WillReturnRows(rows)

		txn, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, txn.ID)
		assert.Equal(t, models.TransactionTypeSettlement, txn.Type)
		assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(125.50)))
	})

	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newTransactionMockDB(t)
		id := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM transactions").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_code", "type", "amount", "currency", "created_at"}))

		txn, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, txn)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestIdempotencyRepository(t *testing.T) {
	newIdemMockDB := func(t *testing.T) (IdempotencyRepository, sqlmock.Sqlmock) {
		t.Helper()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return NewIdempotencyRepository(db), mock
	}

	t.Run("unseen key returns nil without error", func(t *testing.T) {
		repo, mock := newIdemMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM idempotency_keys").
			WithArgs("key-1", "/api/v1/reservations").
			WillReturnRows(sqlmock.NewRows([]string{"key", "request_path", "response_status", "response_body", "created_at"}))

		cached, err := repo.Get(context.Background(), "key-1", "/api/v1/reservations")

		assert.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("cached response round-trips", func(t *testing.T) {
		repo, mock := newIdemMockDB(t)
		now := time.Now().UTC()

		rows := sqlmock.NewRows([]string{"key", "request_path", "response_status", "response_body", "created_at"}).
			AddRow("key-1", "/api/v1/reservations", 201, `{"reservation_code":"RSV-1"}`, now)
		mock.ExpectQuery("SELECT (.+) FROM idempotency_keys").
			WithArgs("key-1", "/api/v1/reservations").
			WillReturnRows(rows)

		cached, err := repo.Get(context.Background(), "key-1", "/api/v1/reservations")

		require.NoError(t, err)
		assert.Equal(t, 201, cached.ResponseStatus)
		assert.Equal(t, `{"reservation_code":"RSV-1"}`, cached.ResponseBody)
	})

	t.Run("store is fire-and-forget on conflict", func(t *testing.T) {
		repo, mock := newIdemMockDB(t)

		mock.ExpectExec("INSERT INTO idempotency_keys").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Store(context.Background(), &models.IdempotencyKey{
			Key:            "key-1",
			RequestPath:    "/api/v1/reservations",
			ResponseStatus: 201,
			ResponseBody:   `{}`,
			CreatedAt:      time.Now().UTC(),
		})

		assert.NoError(t, err)
	})
}
