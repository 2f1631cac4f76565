package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/relayauth"
)

type contextKey string

const ClaimsKey contextKey = "relay_claims"

// Auth returns middleware that validates the relay's Bearer token and
// injects its claims into context. Unauthenticated deliveries never reach
// the event handler.
func Auth(provider *relayauth.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, `{"error":"missing or invalid authorization header"}`, http.StatusUnauthorized)
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, `{"error":"invalid or expired relay token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts relay claims from the request context.
func ClaimsFromContext(ctx context.Context) (*relayauth.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*relayauth.Claims)
	return c, ok
}
