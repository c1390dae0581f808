package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func serve(handler http.Handler, path string) {
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func TestRequestLogger_LogsRequests(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	serve(handler, "/api/layers/draft")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}

	entry := logs.All()[0]
	if entry.Message != "HTTP request" {
		t.Errorf("expected message 'HTTP request', got '%s'", entry.Message)
	}
	if entry.Level != zap.DebugLevel {
		t.Errorf("expected DEBUG level for 2xx, got %s", entry.Level)
	}
}

func TestRequestLogger_NilLogger_PassesThrough(t *testing.T) {
	called := false
	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	serve(handler, "/test")

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestRequestLogger_ElevatesErrorLevels(t *testing.T) {
	cases := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusConflict, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tc := range cases {
		core, logs := observer.New(zap.DebugLevel)
		logger := zap.New(core)

		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		serve(handler, "/test")

		if logs.Len() != 1 {
			t.Fatalf("expected 1 log entry, got %d", logs.Len())
		}
		if got := logs.All()[0].Level.String(); got != tc.wantLevel {
			t.Errorf("status %d: expected %s level, got %s", tc.status, tc.wantLevel, got)
		}
	}
}

func TestRequestLogger_CapturesStatusCode(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	serve(handler, "/missing")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}

	var status int64
	for _, f := range logs.All()[0].Context {
		if f.Key == "status" {
			status = f.Integer
		}
	}
	if status != http.StatusNotFound {
		t.Errorf("expected captured status 404, got %d", status)
	}
}
