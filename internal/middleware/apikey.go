package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/util"
)

const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware guards the load/upload endpoints with the shared
// API_SECRET_KEY, on top of the regular token auth.
type APIKeyMiddleware struct {
	secret string
}

func NewAPIKeyMiddleware(secret string) *APIKeyMiddleware {
	return &APIKeyMiddleware{secret: secret}
}

func (m *APIKeyMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			log.Warn().Str("path", r.URL.Path).Msg("api key middleware: missing key header")
			writeError(w, apperrors.InvalidAPIKey())
			return
		}

		if !util.ConstantTimeEqual(key, m.secret) {
			log.Warn().Str("path", r.URL.Path).Msg("api key middleware: key mismatch")
			writeError(w, apperrors.InvalidAPIKey())
			return
		}

		next.ServeHTTP(w, r)
	})
}
