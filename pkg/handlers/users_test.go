package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shariquekazmi/plan-generation-api/pkg/apperrors"
	"github.com/shariquekazmi/plan-generation-api/pkg/models"
)

func usersTestMux(svc *mockUserService) *http.ServeMux {
	handler := NewUsersHandler(svc, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("POST", path, &buf))
	return w
}

func TestRegisterHandler(t *testing.T) {
	svc := &mockUserService{
		RegisterFunc: func(ctx context.Context, email, name, password string) (*models.User, error) {
			assert.Equal(t, "alice@example.com", email)
			assert.Equal(t, "Alice", name)
			assert.Equal(t, "s3cret", password)
			return &models.User{ID: uuid.New(), Email: email, Name: name, PasswordHash: "hash"}, nil
		},
	}

	w := postJSON(t, usersTestMux(svc), "/api/users/register", RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "s3cret",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	// The password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestRegisterHandler_EmailTaken(t *testing.T) {
	svc := &mockUserService{
		RegisterFunc: func(ctx context.Context, email, name, password string) (*models.User, error) {
			return nil, apperrors.ErrEmailTaken
		},
	}

	w := postJSON(t, usersTestMux(svc), "/api/users/register", RegisterRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email_taken")
}

func TestLoginHandler(t *testing.T) {
	svc := &mockUserService{
		LoginFunc: func(ctx context.Context, email, password string) (string, *models.User, error) {
			return "signed-token", &models.User{ID: uuid.New(), Email: email}, nil
		},
	}

	w := postJSON(t, usersTestMux(svc), "/api/users/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.AccessToken)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &mockUserService{
		LoginFunc: func(ctx context.Context, email, password string) (string, *models.User, error) {
			return "", nil, apperrors.ErrInvalidCredentials
		},
	}

	w := postJSON(t, usersTestMux(svc), "/api/users/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")
}

func TestLoginHandler_InvalidJSON(t *testing.T) {
	mux := usersTestMux(&mockUserService{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("POST", "/api/users/login", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
