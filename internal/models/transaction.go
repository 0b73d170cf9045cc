package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of ledger transaction
type TransactionType string

const (
	TransactionTypeSettlement TransactionType = "SETTLEMENT"
)

// Transaction represents a ledger entry created when a reservation settles.
// Reservations reference it by id only; the ledger owns its lifecycle.
type Transaction struct {
	CreatedAt       time.Time       `db:"created_at"`
	ReservationCode string          `db:"reservation_code"`
	Currency        Currency        `db:"currency"`
	Type            TransactionType `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	ID              uuid.UUID       `db:"id"`
}

// IdempotencyKey tracks processed requests to prevent duplicate transitions
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}
