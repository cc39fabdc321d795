package auth

import (
	"context"
	"net/http"

	"github.com/lakefield/todoapi/models"
	"github.com/lakefield/todoapi/webutil"
)

type contextKey string

const (
	userContextKey  contextKey = "auth.user"
	tokenContextKey contextKey = "auth.token"
)

// RequireAuth rejects requests whose x-auth header does not resolve to a
// user. On success the user and the raw token are stored on the request
// context for downstream handlers.
func (s *TokenService) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(webutil.HeaderXAuth)
		if token == "" {
			webutil.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.Resolve(r.Context(), token)
		if err != nil {
			webutil.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user set by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// TokenFromContext returns the raw token that authenticated the request.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}
