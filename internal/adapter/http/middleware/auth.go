package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bazaar-team/bazaar-backend/internal/account/auth"
)

// UserID returns the authenticated caller's id from the request context. The
// second value is false for anonymous requests.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDCtxKey).(int64)
	return id, ok
}

// UserRole returns the authenticated caller's role.
func UserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(userRoleCtxKey).(string)
	return role, ok
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, userIDCtxKey, claims.UserID)
	return context.WithValue(ctx, userRoleCtxKey, claims.Role)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// JWTAuth rejects requests without a valid bearer access token.
func JWTAuth(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "authorization token is not provided")
				return
			}
			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				unauthorized(w, "token is invalid or expired")
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth decodes the bearer token when one is present and lets
// anonymous requests through untouched. A malformed or expired token is still
// rejected, so handlers can trust any identity they find in the context.
func OptionalAuth(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				unauthorized(w, "token is invalid or expired")
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}
