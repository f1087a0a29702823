package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/distordia/nexgo/internal/domain/models"
)

type claimsKey struct{}

// WithClaims injects validated operator claims into the context
func WithClaims(ctx context.Context, claims *models.OperatorClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the operator claims set by the auth
// middleware, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *models.OperatorClaims {
	claims, _ := ctx.Value(claimsKey{}).(*models.OperatorClaims)
	return claims
}

// Auth validates the bearer token when present and injects the claims
// into the context. Requests without a header pass through anonymous;
// protected endpoints reject those via RequireOperator.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := h.auth.Validate(token)
		if err != nil || claims == nil {
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
	})
}

// RequireOperator allows only requests carrying validated operator claims
func (h *Middleware) RequireOperator(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()) == nil {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- header parser ---
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
