package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterCheck(t *testing.T) {
	rl := NewRateLimiter()

	t.Run("allows up to limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, remaining, _ := rl.Check("alice", 3)
			assert.True(t, allowed)
			assert.Equal(t, 3-i-1, remaining)
		}

		allowed, remaining, resetAt := rl.Check("alice", 3)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Positive(t, resetAt)
	})

	t.Run("keys are independent", func(t *testing.T) {
		allowed, _, _ := rl.Check("bob", 3)
		assert.True(t, allowed)
	})
}

func TestUserRateLimitMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	authedRequest := func(username string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/insights", nil)
		ctx := context.WithValue(req.Context(), UsernameContextKey, username)
		return req.WithContext(ctx)
	}

	t.Run("enforces per-user limit", func(t *testing.T) {
		mw := NewUserRateLimitMiddleware(2)
		handler := mw.Handler(okHandler)

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest("carol"))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest("carol"))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("anonymous requests pass through", func(t *testing.T) {
		mw := NewUserRateLimitMiddleware(1)
		handler := mw.Handler(okHandler)

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestLoginRateLimiter(t *testing.T) {
	limiter := NewLoginRateLimiter()
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < loginMaxAttempts; i++ {
		assert.Equal(t, http.StatusOK, request("10.0.0.1:1234").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:1234").Code)

	// other clients are unaffected
	assert.Equal(t, http.StatusOK, request("10.0.0.2:1234").Code)
}
