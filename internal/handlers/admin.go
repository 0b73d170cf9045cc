package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/corebank/ftreserve/internal/service"
)

// sweepRequest optionally pins the sweep instant; defaults to wall clock
type sweepRequest struct {
	AsOf *time.Time `json:"as_of,omitempty"`
}

// SweepExpired handles POST /api/v1/admin/sweep
func (h *Handler) SweepExpired(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   service.ErrCodeValidation,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	swept, err := h.lifecycle.SweepExpired(r.Context(), asOf)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"swept": swept,
		"as_of": asOf,
	})
}

// TriggerReconciliation handles POST /api/v1/admin/reconcile
//
// Reconciliation only observes external state; it never confirms. A partial
// failure still returns the report gathered so far.
func (h *Handler) TriggerReconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.Run(r.Context())
	if err != nil {
		h.logger.Error("reconciliation pass failed", "error", err)
		h.writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   service.ErrCodeGatewayUnavailable,
			"message": err.Error(),
			"report":  report,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}
