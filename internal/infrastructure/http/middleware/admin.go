package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

var (
	ErrNotSignedIn = errors.New("sign in required")
	ErrNotAdmin    = errors.New("admin role required")
)

// SessionReader resolves the current session
type SessionReader interface {
	CurrentUser(ctx context.Context) (*domain.SessionUser, error)
}

// RequireAdmin rejects requests unless the current session belongs to an admin.
// The session is one record per store namespace, not per client: while an
// admin is signed in every caller passes this guard.
func RequireAdmin(sessions SessionReader, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.CurrentUser(r.Context())
			if err != nil {
				response.Error(w, http.StatusInternalServerError, err)
				return
			}
			if user == nil {
				response.Error(w, http.StatusUnauthorized, ErrNotSignedIn)
				return
			}
			if !user.IsAdmin() {
				logger.WarnContext(r.Context(), "Admin route denied",
					slog.String("role", string(user.Role)),
				)
				response.Error(w, http.StatusForbidden, ErrNotAdmin)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
