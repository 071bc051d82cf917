package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lanewise/lanewise/internal/api"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthValidator resolves an API key to a caller identity. The
// authentication layer itself lives outside this service; the router
// only consumes this boundary.
type AuthValidator interface {
	ValidateAPIKey(ctx context.Context, token string) (string, error)
}

func APIKeyAuth(validator AuthValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				api.Error(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")

			userID, err := validator.ValidateAPIKey(r.Context(), token)
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "invalid api key")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}
