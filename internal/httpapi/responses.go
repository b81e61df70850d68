package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/AiswaryaS-IT/banking-website/internal/domain"
)

// errorResponse is the JSON error body returned by every handler.
type errorResponse struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	ID          uuid.UUID `json:"id"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError writes an error response in the expected format.
func writeError(w http.ResponseWriter, statusCode int, code, description string) {
	writeJSON(w, statusCode, errorResponse{
		Code:        code,
		Description: description,
		ID:          uuid.New(),
	})
}

// writeDomainError maps domain errors to HTTP responses. Retryable causes
// (identifier exhaustion, storage failures) map to 5xx; everything the
// caller can fix maps to 4xx.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "account not found")
	case errors.Is(err, domain.ErrInvalidTransactionType):
		writeError(w, http.StatusBadRequest, "INVALID_TRANSACTION_TYPE", err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "INVALID_AMOUNT", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "insufficient funds")
	case errors.Is(err, domain.ErrIdentifierExhausted):
		writeError(w, http.StatusServiceUnavailable, "IDENTIFIER_EXHAUSTED", "could not allocate an account number, retry the request")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
