package api

import (
	"errors"
	"net/http"

	"github.com/missionkuamar/auth-redux/internal/domain/user"
	"github.com/missionkuamar/auth-redux/internal/service"
)

// handleListUsers returns every registered account in registration order.
// GET /api/users
//
// Response: 200 {"data": [userRecord, ...]}
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("list users failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}
	if users == nil {
		users = []user.User{}
	}
	h.respondJSON(w, http.StatusOK, dataEnvelope{Data: users})
}

// handleGetUser returns one account by id.
// GET /api/users/{id}
func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dataEnvelope{Data: u})
}

// handleUpdateUser applies a partial update to any account.
// PUT /api/users/{id}
//
// Request: {"name"?: ..., "email"?: ...}
// Response: 200 {"data": updatedRecord}
func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateInput
	if err := h.readJSON(r, &input); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dataEnvelope{Data: u})
}

// handleDeleteUser removes an account. Deleting your own account is allowed;
// the token issued for it simply stops resolving afterwards.
// DELETE /api/users/{id}
//
// Response: 200 {"data": {}}
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dataEnvelope{Data: struct{}{}})
}

// handleUpdateProfile updates the calling user's own name and email.
// PUT /api/users/profile/update
//
// Response: 200 {"data": updatedRecord}
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())

	var input service.UpdateInput
	if err := h.readJSON(r, &input); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.Update(r.Context(), me.ID, input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dataEnvelope{Data: u})
}

// respondServiceError maps service and store errors to HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respondError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, user.ErrDuplicateEmail):
		h.respondError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, user.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "user not found")
	default:
		h.logger.Error("request failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
	}
}
