package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/audit"
	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/service"
)

// AuthHandler serves the public registration and login endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventRegister,
		Username: user.Username,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "User registered successfully",
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:     audit.EventLoginFailure,
			Username: req.Username,
		})
		writeError(w, err)
		return
	}

	token, expiresAt, err := h.authService.IssueToken(user.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token")
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventLoginSuccess,
		Username: user.Username,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"username":   user.Username,
		"expires_at": expiresAt.Unix(),
	})
}
