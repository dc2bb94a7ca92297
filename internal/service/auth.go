package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/repository"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/util"
)

const (
	MinUsernameLength = 4
	MinPasswordLength = 4
)

// AuthService registers users, authenticates logins and issues/validates the
// stateless session tokens. Tokens are HS256 JWTs with subject=username;
// validity is purely signature plus expiry, there is no revocation list.
type AuthService struct {
	userRepo   repository.UserRepository
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, signingKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*model.UserAccount, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return nil, apperrors.ValidationError(
			fmt.Sprintf("Username must be at least %d characters", MinUsernameLength))
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.ValidationError(
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	user, err := s.userRepo.Create(ctx, model.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().Unix(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, apperrors.DuplicateUsername(username)
		}
		return nil, apperrors.Database(err)
	}
	return user, nil
}

// Login verifies the credentials and updates last_login. Unknown usernames
// and wrong passwords yield the identical error so callers cannot enumerate
// accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.UserAccount, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil || !util.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	lastLogin := s.now().Unix()
	if err := s.userRepo.UpdateLastLogin(ctx, user.Username, lastLogin); err != nil {
		return nil, apperrors.Database(err)
	}
	user.LastLogin = lastLogin
	return user, nil
}

// IssueToken signs a token for username with a fixed TTL from issuance.
func (s *AuthService) IssueToken(username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, apperrors.Internal("Failed to sign token").WithCause(err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies signature and expiry and returns the subject.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.TokenExpired()
		}
		return "", apperrors.InvalidToken("Token is malformed or has an invalid signature")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperrors.InvalidToken("Token has no subject")
	}
	return claims.Subject, nil
}
