package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shariquekazmi/plan-generation-api/pkg/apperrors"
	"github.com/shariquekazmi/plan-generation-api/pkg/oracle"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	err := WriteJSON(w, http.StatusCreated, map[string]string{"key": "value"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "value", body["key"])
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	err := ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "Resource not found", body["message"])
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"identity", apperrors.ErrIdentity, http.StatusUnauthorized, "unauthorized"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid action", apperrors.ErrInvalidAction, http.StatusBadRequest, "invalid_action"},
		{"empty prompt", apperrors.ErrEmptyPrompt, http.StatusBadRequest, "empty_prompt"},
		{"invalid transition", apperrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{"not ready", apperrors.ErrNotReady, http.StatusConflict, "not_ready"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"email taken", apperrors.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{"oracle", oracle.NewError(oracle.ErrorTypeEndpoint, "boom", true, nil), http.StatusBadGateway, "oracle_unavailable"},
		{"unknown", errors.New("something exploded"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, ServiceError(w, tt.err))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestServiceError_WrappedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("context"), apperrors.ErrNotFound)
	require.NoError(t, ServiceError(w, wrapped))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
