package middleware

import (
	"context"
	"net/http"

	"github.com/gatherly/server/internal/api/respond"
	"github.com/gatherly/server/internal/apperr"
	"github.com/gatherly/server/internal/auth"
)

type contextKeyAuth string

const claimsKey contextKeyAuth = "claims"

// RequireAuth validates the bearer token and gates the route on role.
// Decoded claims land in the request context for handlers to read.
func RequireAuth(manager *auth.JWTManager, roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				respond.Error(w, r, apperr.Wrap(apperr.Unauthenticated, "authentication required", err))
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				respond.Error(w, r, apperr.Wrap(apperr.Unauthenticated, "invalid or expired token", err))
				return
			}

			if !auth.HasRole(claims.Role, roles...) {
				respond.Error(w, r, apperr.New(apperr.Forbidden, "insufficient permissions"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims set by RequireAuth, or nil on
// unauthenticated routes.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
