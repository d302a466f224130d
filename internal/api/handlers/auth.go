package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/response"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
)

type contextKey int

const userIDKey contextKey = iota

// SessionStore is the slice of session persistence the middleware needs.
type SessionStore interface {
	GetByToken(ctx context.Context, token string) (*models.Session, error)
}

// RequireSession returns middleware that authenticates requests by bearer
// session token and stores the user ID in the request context.
func RequireSession(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, errors.New("missing session token"))
				return
			}

			session, err := sessions.GetByToken(r.Context(), token)
			if err != nil {
				response.InternalError(w, err)
				return
			}
			if session == nil {
				response.Unauthorized(w, errors.New("invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the authenticated user's ID, or "" outside an
// authenticated request.
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
