package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/authsvc/internal/shared/cookie"
	"github.com/andrasnagy-data/authsvc/internal/shared/token"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const claimsKey contextKey = "claims"

// TokenParser verifies a raw token and returns its claims.
type TokenParser interface {
	Parse(tokenString string) (token.Claims, error)
}

// GetClaims extracts the verified token claims from the request context
func GetClaims(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(token.Claims)
	return claims, ok
}

// NewAuthMiddleware creates authentication middleware that validates bearer tokens
// (or the token cookie) and protects routes from unauthorized access. The verified
// claims are added to the request context for downstream handlers.
func NewAuthMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := hlog.FromRequest(r)

			raw, err := cookie.Token(r)
			if err != nil {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := parser.Parse(raw)
			if err != nil {
				logger.Debug().Err(err).Msg("Rejected token")
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="authsvc"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "not_authenticated",
		"message": msg,
	})
}
