package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/idempotency"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func respondOK(w http.ResponseWriter, status int, message string, data any) {
	respondJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, envelope{Success: false, Message: message, Code: code})
}

// respondErr maps the domain error taxonomy to HTTP. Persistence failures never expose their cause.
func (a *api) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *domain.StockConflictError
	var adjusted *domain.CartAdjustedError

	switch {
	case errors.As(err, &adjusted):
		respondJSON(w, http.StatusConflict, envelope{
			Message: "Your cart was updated because some items changed. Please review it before checking out.",
			Code:    "cart_adjusted",
			Data:    map[string]any{"notices": adjusted.Notices},
		})
	case errors.As(err, &conflict):
		respondJSON(w, http.StatusConflict, envelope{
			Message: "Some items in your cart are no longer available in the requested quantity.",
			Code:    "stock_conflict",
			Data:    map[string]any{"product_ids": conflict.ProductIDs},
		})
	case errors.Is(err, domain.ErrValidationFailed):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", domain.Message(err))
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrProductUnavailable):
		respondError(w, http.StatusConflict, "product_unavailable", domain.Message(err))
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", domain.Message(err))
	case errors.Is(err, idempotency.ErrInProgress):
		respondError(w, http.StatusConflict, "in_progress", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out, please try again")
	default:
		a.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
