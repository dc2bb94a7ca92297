package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
)

type contextKey string

const UsernameContextKey contextKey = "username"

// GetUsername returns the authenticated username from the request context,
// or "" for unauthenticated requests.
func GetUsername(ctx context.Context) string {
	if username, ok := ctx.Value(UsernameContextKey).(string); ok {
		return username
	}
	return ""
}

// TokenValidator validates a session token and returns its subject.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeError(w, apperrors.Unauthorized("Missing authentication token"))
			return
		}

		username, err := m.validator.ValidateToken(token)
		if err != nil {
			log.Warn().Str("path", r.URL.Path).Msg("auth middleware: token rejected")
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UsernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
