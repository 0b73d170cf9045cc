package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/models"
	"github.com/corebank/ftreserve/internal/service"
)

// createReservationRequest is the payload for POST /api/v1/reservations
type createReservationRequest struct {
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
	Metadata          map[string]any   `json:"metadata,omitempty"`
	ReservationCode   string           `json:"reservation_code"`
	AccountRef        string           `json:"account_ref"`
	ExternalAccountID string           `json:"external_account_id"`
	Currency          string           `json:"currency"`
	Source            counterpartyView `json:"source"`
	Destination       counterpartyView `json:"destination"`
	Amount            decimal.Decimal  `json:"amount"`
}

// CreateReservation handles POST /api/v1/reservations
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   service.ErrCodeValidation,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	accountRef, err := uuid.Parse(req.AccountRef)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   service.ErrCodeValidation,
			Message: "invalid account_ref: " + err.Error(),
		})
		return
	}

	reservation, err := h.lifecycle.Create(r.Context(), service.CreateReservationParams{
		ReservationCode:   req.ReservationCode,
		AccountRef:        accountRef,
		ExternalAccountID: req.ExternalAccountID,
		Amount:            req.Amount,
		Currency:          models.Currency(req.Currency),
		Source:            models.CounterpartyInfo(req.Source),
		Destination:       models.CounterpartyInfo(req.Destination),
		ExpiresAt:         req.ExpiresAt,
		Metadata:          req.Metadata,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newReservationView(reservation))
}

// GetReservation handles GET /api/v1/reservations/{code}
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.statusQuery.FindByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newReservationView(reservation))
}

// ConfirmReservation handles POST /api/v1/reservations/{code}/confirm
func (h *Handler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.lifecycle.Confirm(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newReservationView(reservation))
}

// CancelReservation handles POST /api/v1/reservations/{code}/cancel
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.lifecycle.Cancel(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newReservationView(reservation))
}

// GetPendingReservations handles GET /api/v1/accounts/{accountId}/reservations
//
// Results are sorted soonest-to-expire first so callers can prioritize action.
func (h *Handler) GetPendingReservations(w http.ResponseWriter, r *http.Request) {
	accountRef, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   service.ErrCodeValidation,
			Message: "invalid account id: " + err.Error(),
		})
		return
	}

	reservations, err := h.statusQuery.GetPending(r.Context(), accountRef)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	views := make([]reservationView, 0, len(reservations))
	for _, reservation := range reservations {
		views = append(views, newReservationView(reservation))
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"reservations": views,
		"count":        len(views),
	})
}
