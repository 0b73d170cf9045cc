package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/models"
	"github.com/corebank/ftreserve/internal/service"
)

// errorResponse is the JSON error envelope returned by every endpoint
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// counterpartyView mirrors models.CounterpartyInfo on the wire
type counterpartyView struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	Country       string `json:"country"`
}

// reservationView is the API representation of a reservation
type reservationView struct {
	ReservationCode   string           `json:"reservation_code"`
	AccountRef        uuid.UUID        `json:"account_ref"`
	ExternalAccountID string           `json:"external_account_id"`
	Amount            decimal.Decimal  `json:"amount"`
	Currency          string           `json:"currency"`
	Status            string           `json:"status"`
	Source            counterpartyView `json:"source"`
	Destination       counterpartyView `json:"destination"`
	TransactionID     *uuid.UUID       `json:"transaction_id,omitempty"`
	Metadata          map[string]any   `json:"metadata,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	ExpiresAt         time.Time        `json:"expires_at"`
	ConfirmedAt       *time.Time       `json:"confirmed_at,omitempty"`
	CancelledAt       *time.Time       `json:"cancelled_at,omitempty"`
}

func newReservationView(reservation *models.Reservation) reservationView {
	return reservationView{
		ReservationCode:   reservation.ReservationCode,
		AccountRef:        reservation.AccountRef,
		ExternalAccountID: reservation.ExternalAccountID,
		Amount:            reservation.Amount,
		Currency:          string(reservation.Currency),
		Status:            string(reservation.Status),
		Source:            counterpartyView(reservation.Source),
		Destination:       counterpartyView(reservation.Destination),
		TransactionID:     reservation.TransactionID,
		Metadata:          reservation.Metadata,
		CreatedAt:         reservation.CreatedAt,
		ExpiresAt:         reservation.ExpiresAt,
		ConfirmedAt:       reservation.ConfirmedAt,
		CancelledAt:       reservation.CancelledAt,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeServiceError maps service errors to HTTP responses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	svcErr := extractServiceError(err)
	if svcErr == nil {
		h.logger.Error("unexpected error", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   service.ErrCodeInternalError,
			Message: "internal error",
		})
		return
	}

	h.writeJSON(w, statusForCode(svcErr.Code), errorResponse{
		Error:   svcErr.Code,
		Message: svcErr.Message,
	})
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeValidation:
		return http.StatusBadRequest
	case service.ErrCodeReservationNotFound:
		return http.StatusNotFound
	case service.ErrCodeDuplicateCode, service.ErrCodeInvalidTransition:
		return http.StatusConflict
	case service.ErrCodeGatewayRejected, service.ErrCodeGatewayMalformed:
		return http.StatusBadGateway
	case service.ErrCodeGatewayUnavailable:
		return http.StatusServiceUnavailable
	case service.ErrCodeGatewayAmbiguous:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}
