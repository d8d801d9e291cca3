package test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourorg/harbormaster/internal/handler"
	"github.com/yourorg/harbormaster/internal/infrastructure/logger"
	"github.com/yourorg/harbormaster/internal/service"
)

// TestServerHelper creates a test HTTP server without needing a running backend
type TestServerHelper struct {
	Server *httptest.Server
	Logger *slog.Logger
	Mux    *http.ServeMux
}

func NewTestServer(t *testing.T) *TestServerHelper {
	logger := logger.NewLogger("debug")
	mux := http.NewServeMux()

	// Setup basic health endpoints
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	server := httptest.NewServer(mux)

	return &TestServerHelper{
		Server: server,
		Logger: logger,
		Mux:    mux,
	}
}

func (h *TestServerHelper) Close() {
	h.Server.Close()
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// AddAuthHandler adds the auth endpoints to the test server
func (h *TestServerHelper) AddAuthHandler(authService *service.AuthService) {
	authHandler := handler.NewAuthHandler(authService, h.Logger)

	h.Mux.HandleFunc("POST /auth/login", authHandler.Login)
	h.Mux.HandleFunc("GET /auth/logout", authHandler.Logout)
	h.Mux.HandleFunc("POST /auth/logout", authHandler.Logout)
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}
