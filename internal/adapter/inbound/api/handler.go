// Package api provides the JSON REST handlers for the account service.
// All routes live under /api; responses wrap payloads in {"data": ...}
// and errors in {"error": message}.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/missionkuamar/auth-redux/internal/domain/auth"
	"github.com/missionkuamar/auth-redux/internal/service"
)

// Handler holds the dependencies of the account API endpoints.
type Handler struct {
	users   *service.UserService
	tokens  *auth.TokenIssuer
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Handler dependency.
type Option func(*Handler)

// WithMetrics sets the Prometheus metrics recorded by the middleware.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a Handler around the user service and token issuer.
func NewHandler(users *service.UserService, tokens *auth.TokenIssuer, opts ...Option) *Handler {
	h := &Handler{
		users:  users,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns an http.Handler with all account API routes.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Auth endpoints (no token required)
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/auth/me", h.requireAuth(h.handleMe))

	// User roster endpoints (token required)
	mux.HandleFunc("GET /api/users", h.requireAuth(h.handleListUsers))
	mux.HandleFunc("GET /api/users/{id}", h.requireAuth(h.handleGetUser))
	mux.HandleFunc("PUT /api/users/{id}", h.requireAuth(h.handleUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", h.requireAuth(h.handleDeleteUser))
	mux.HandleFunc("PUT /api/users/profile/update", h.requireAuth(h.handleUpdateProfile))

	mux.HandleFunc("GET /api/health", h.handleHealth)

	var handler http.Handler = mux
	if h.metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{}))
		handler = h.metrics.Middleware(handler)
	}
	return handler
}

// handleHealth reports liveness.
// GET /api/health
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondJSON writes a JSON response with the given status code and data.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a JSON error response with the given status code and message.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes the request body into the given value.
// Returns an error if the body cannot be decoded as JSON.
func (h *Handler) readJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// dataEnvelope wraps a success payload: {"data": ...}.
type dataEnvelope struct {
	Data interface{} `json:"data"`
}
