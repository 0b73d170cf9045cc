package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateReservation indicates a reservation with the same code already exists
	ErrDuplicateReservation = errors.New("duplicate reservation")

	// ErrDuplicateTransaction indicates a ledger transaction of the same type
	// already exists for the reservation
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrStaleStatus indicates a compare-and-set transition found the record
	// in a different status than expected
	ErrStaleStatus = errors.New("stale status")
)
