package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is an ISO currency code supported by the settlement core
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// SupportedCurrencies lists every currency the core accepts
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyEUR}

// Valid reports whether the currency is one of the supported set
func (c Currency) Valid() bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
)

// Terminal reports whether no further transitions are permitted from the status
func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusConfirmed ||
		s == ReservationStatusCancelled ||
		s == ReservationStatusExpired
}

// CounterpartyInfo holds denormalized bank details for one side of a transfer.
// Informational only; never validated beyond presence.
type CounterpartyInfo struct {
	Name          string `db:"name"`
	AccountNumber string `db:"account_number"`
	BankName      string `db:"bank_name"`
	Country       string `db:"country"`
}

// Reservation represents a provisional hold of funds awaiting external
// settlement confirmation
type Reservation struct {
	CreatedAt         time.Time         `db:"created_at"`
	ExpiresAt         time.Time         `db:"expires_at"`
	ConfirmedAt       *time.Time        `db:"confirmed_at"`
	CancelledAt       *time.Time        `db:"cancelled_at"`
	TransactionID     *uuid.UUID        `db:"transaction_id"`
	Metadata          map[string]any    `db:"metadata"`
	ReservationCode   string            `db:"reservation_code"`
	ExternalAccountID string            `db:"external_account_id"`
	Currency          Currency          `db:"currency"`
	Status            ReservationStatus `db:"status"`
	Source            CounterpartyInfo  `db:"source"`
	Destination       CounterpartyInfo  `db:"destination"`
	Amount            decimal.Decimal   `db:"amount"`
	AccountRef        uuid.UUID         `db:"account_ref"`
}

// IsExpired reports whether the reservation's expiry is in the past at the
// given instant, regardless of the stored status
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}
