package api

import (
	"errors"
	"net/http"

	"github.com/missionkuamar/auth-redux/internal/domain/user"
	"github.com/missionkuamar/auth-redux/internal/service"
)

// loginRequest is the JSON body of POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authData is the success payload of register and login: the bearer token
// alongside the user's own fields.
type authData struct {
	Token string `json:"token"`
	user.User
}

// handleRegister creates an account and returns a token for it.
// POST /api/auth/register
//
// Request: {"name": ..., "email": ..., "password": ...}
// Response: 201 {"data": {"token": ..., "_id": ..., "name": ..., ...}}
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := h.readJSON(r, &input); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.Register(r.Context(), input)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.respondError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, user.ErrDuplicateEmail):
			h.respondError(w, http.StatusBadRequest, "email already registered")
		default:
			h.logger.Error("register failed", "error", err)
			h.respondError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "user_id", u.ID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	h.respondJSON(w, http.StatusCreated, dataEnvelope{Data: authData{Token: token, User: *u}})
}

// handleLogin authenticates with email and password.
// POST /api/auth/login
//
// Response: 200 {"data": {"token": ..., "_id": ..., ...}}
// Unknown email and wrong password both yield 401 "invalid credentials".
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "user_id", u.ID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	h.respondJSON(w, http.StatusOK, dataEnvelope{Data: authData{Token: token, User: *u}})
}

// handleMe returns the record of the user the bearer token belongs to.
// GET /api/auth/me
//
// Response: 200 {"data": userRecord}
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	h.respondJSON(w, http.StatusOK, dataEnvelope{Data: u})
}
