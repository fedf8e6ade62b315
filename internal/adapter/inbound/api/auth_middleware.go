package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/missionkuamar/auth-redux/internal/ctxkey"
	"github.com/missionkuamar/auth-redux/internal/domain/user"
)

// requireAuth wraps a handler with bearer token verification. The resolved
// user record is stored on the request context and can be read back with
// userFrom.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			h.respondError(w, http.StatusUnauthorized, "not authorized, no token")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		userID, err := h.tokens.Verify(token)
		if err != nil {
			h.respondError(w, http.StatusUnauthorized, "not authorized, token failed")
			return
		}

		u, err := h.users.Get(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				h.respondError(w, http.StatusUnauthorized, "not authorized, token failed")
				return
			}
			h.logger.Error("auth lookup failed", "user_id", userID, "error", err)
			h.respondError(w, http.StatusInternalServerError, "server error")
			return
		}

		ctx := context.WithValue(r.Context(), ctxkey.UserKey{}, u)
		next(w, r.WithContext(ctx))
	}
}

// userFrom returns the authenticated user placed on the context by
// requireAuth. It must only be called from handlers behind requireAuth.
func userFrom(ctx context.Context) *user.User {
	u, _ := ctx.Value(ctxkey.UserKey{}).(*user.User)
	return u
}
