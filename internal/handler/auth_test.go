package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/service"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/util"
)

const testSigningKey = "handler-test-signing-key-0123456789"

func authRouter(h *AuthHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	return r
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	t.Run("success returns 201", func(t *testing.T) {
		userRepo := &mockUserRepo{
			createFunc: func(ctx context.Context, params model.CreateUserParams) (*model.UserAccount, error) {
				return &model.UserAccount{
					ID:           1,
					Username:     params.Username,
					PasswordHash: params.PasswordHash,
					CreatedAt:    params.CreatedAt,
				}, nil
			},
		}
		h := NewAuthHandler(service.NewAuthService(userRepo, testSigningKey, time.Hour))

		rec := postJSON(t, authRouter(h), "/register", `{"username":"alice","password":"secret"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice")
	})

	t.Run("short username returns 400", func(t *testing.T) {
		h := NewAuthHandler(service.NewAuthService(&mockUserRepo{}, testSigningKey, time.Hour))

		rec := postJSON(t, authRouter(h), "/register", `{"username":"ab","password":"secret"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		h := NewAuthHandler(service.NewAuthService(&mockUserRepo{}, testSigningKey, time.Hour))

		rec := postJSON(t, authRouter(h), "/register", `{not json`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	hash, err := util.HashPassword("secret")
	require.NoError(t, err)

	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.UserAccount, error) {
			if username != "alice" {
				return nil, nil
			}
			return &model.UserAccount{ID: 1, Username: "alice", PasswordHash: hash}, nil
		},
	}

	h := NewAuthHandler(service.NewAuthService(userRepo, testSigningKey, time.Hour))

	t.Run("success returns token and expiry", func(t *testing.T) {
		rec := postJSON(t, authRouter(h), "/login", `{"username":"alice","password":"secret"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token     string `json:"token"`
			Username  string `json:"username"`
			ExpiresAt int64  `json:"expires_at"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice", resp.Username)
		assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
	})

	t.Run("wrong password returns 400", func(t *testing.T) {
		rec := postJSON(t, authRouter(h), "/login", `{"username":"alice","password":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		wrongPass := postJSON(t, authRouter(h), "/login", `{"username":"alice","password":"nope"}`)
		unknown := postJSON(t, authRouter(h), "/login", `{"username":"nobody","password":"secret"}`)

		assert.Equal(t, wrongPass.Code, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})
}
