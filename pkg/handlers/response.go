package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shariquekazmi/plan-generation-api/pkg/apperrors"
	"github.com/shariquekazmi/plan-generation-api/pkg/oracle"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError maps a service-layer error to an HTTP status and error code.
// Unknown errors fall through to 500 without leaking internals.
func ServiceError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrIdentity):
		return ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Caller identity required")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, apperrors.ErrForbidden):
		return ErrorResponse(w, http.StatusForbidden, "forbidden", "You do not own this layer")
	case errors.Is(err, apperrors.ErrNotFound):
		return ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrInvalidAction):
		return ErrorResponse(w, http.StatusBadRequest, "invalid_action", "Action must be 'edit' or 'confirm'")
	case errors.Is(err, apperrors.ErrEmptyPrompt):
		return ErrorResponse(w, http.StatusBadRequest, "empty_prompt", "Prompt content must not be empty")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return ErrorResponse(w, http.StatusConflict, "invalid_transition", "The layer's current status does not allow this action")
	case errors.Is(err, apperrors.ErrNotReady):
		return ErrorResponse(w, http.StatusConflict, "not_ready", "Layer must be finalized before generation")
	case errors.Is(err, apperrors.ErrConflict):
		return ErrorResponse(w, http.StatusConflict, "conflict", "The layer was modified concurrently, retry the request")
	case errors.Is(err, apperrors.ErrEmailTaken):
		return ErrorResponse(w, http.StatusConflict, "email_taken", "Email is already registered")
	}

	var oracleErr *oracle.Error
	if errors.As(err, &oracleErr) {
		return ErrorResponse(w, http.StatusBadGateway, "oracle_unavailable", "The AI backend failed to produce a response")
	}

	return ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}
