// Package gateway implements the client boundary to the external FT
// reservation API: listing reservations per account and submitting
// settlement confirmations over a legacy HTTP endpoint.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/models"
)

// Outcome classifies how a gateway call failed
type Outcome string

const (
	// OutcomeTransportError means the call definitively never reached the
	// remote side (connect failure, circuit open)
	OutcomeTransportError Outcome = "transport_error"

	// OutcomeMalformedResponse means the response body was unparsable even
	// after repair
	OutcomeMalformedResponse Outcome = "malformed_response"

	// OutcomeRemoteRejected means the remote side explicitly refused the call
	OutcomeRemoteRejected Outcome = "remote_rejected"

	// OutcomeAmbiguous means neither success nor failure was observed; the
	// remote side may or may not have applied the call
	OutcomeAmbiguous Outcome = "ambiguous"
)

// Error is a gateway fault carrying its outcome classification
type Error struct {
	Err     error
	Message string
	Outcome Outcome
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Outcome, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Outcome, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Err
}

// ReservationRecord is one reservation as reported by the external system
type ReservationRecord struct {
	ReservationCode   string
	ExternalAccountID string
	AccountName       string
	Currency          models.Currency
	Amount            decimal.Decimal
	RecordNumber      int
}

// ConfirmRequest carries the fields of the external confirmation payload
type ConfirmRequest struct {
	ReservationCode string
	AccountNumber   string
	Amount          decimal.Decimal
	Timestamp       time.Time
}

// ConfirmResult reports a definite remote acceptance
type ConfirmResult struct {
	StatusCode int
	RawBody    string
}

// Client is the boundary to the external FT reservation API
type Client interface {
	// ListReservations queries the external reservations for one account.
	// An absent or empty overview payload means zero reservations.
	ListReservations(ctx context.Context, externalAccountID string, currency models.Currency) ([]ReservationRecord, error)

	// ConfirmReservation submits a settlement confirmation. The remote
	// endpoint is not idempotent; callers must guard against duplicate
	// attempts. Returns a *Error with OutcomeAmbiguous when the result of
	// the call cannot be determined.
	ConfirmReservation(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
}
