package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"warehouse-ledger/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorDetails(w, r, message, code, status, nil)
}

func writeErrorDetails(w http.ResponseWriter, r *http.Request, message, code string, status int, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
		Details:   details,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type overageDetails struct {
	OrderID   string `json:"orderId"`
	Requested int    `json:"requested"`
	Remaining int    `json:"remaining"`
}

type shortageDetails struct {
	Item      string `json:"item"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// writeServiceError maps a ledger error kind to its HTTP status and code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		overage  *core.OverageError
		shortage *core.InsufficientStockError
	)
	switch {
	case errors.As(err, &overage):
		writeErrorDetails(w, r, err.Error(), "OVERAGE", http.StatusConflict,
			overageDetails{OrderID: overage.OrderID, Requested: overage.Requested, Remaining: overage.Remaining})
	case errors.As(err, &shortage):
		writeErrorDetails(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusConflict,
			shortageDetails{Item: shortage.Item, Requested: shortage.Requested, Available: shortage.Available})
	case errors.Is(err, core.ErrValidation):
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrLocked):
		writeError(w, r, err.Error(), "LOCKED", http.StatusLocked)
	case errors.Is(err, core.ErrConflict):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	case errors.Is(err, core.ErrAlreadyPaid):
		writeError(w, r, err.Error(), "ALREADY_PAID", http.StatusConflict)
	case errors.Is(err, core.ErrPersistence):
		writeError(w, r, "ledger could not be saved", "PERSISTENCE_ERROR", http.StatusServiceUnavailable)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
