package auth

import (
	"context"
	"net/http"

	"github.com/sakif/boardhouse/internal/model"
	"github.com/sakif/boardhouse/internal/repository"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write
// the authenticated user in a request context — no collisions with other
// packages that might use the same string.
type contextKey string

const userKey contextKey = "user"

// RequireAPIKey enforces authentication on protected routes.
//
// Every request must carry the caller's API key in the X-API-Key header.
// The key is issued at OAuth onboarding and stored on the users row; an
// empty or unknown key gets 401 and the chain stops. On success the full
// user record (API key included) is stored in the request context.
func RequireAPIKey(users repository.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				http.Error(w, `{"error":"unauthorized","message":"API key required"}`, http.StatusUnauthorized)
				return
			}

			user, err := users.GetUserByAPIKey(r.Context(), key)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"invalid API key"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) if the request did not pass RequireAPIKey.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}
