package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type authService struct {
	userRepo       ports.UserRepository
	authRepo       ports.AuthRepository
	verifier       ports.TokenVerifier
	jwtSecret      []byte
	googleClientID string
}

// NewAuthService builds the login/refresh/logout flow. Secrets come in
// through the constructor, not from the environment.
func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository, verifier ports.TokenVerifier, jwtSecret []byte, googleClientID string) ports.AuthService {
	return &authService{
		userRepo:       userRepo,
		authRepo:       authRepo,
		verifier:       verifier,
		jwtSecret:      jwtSecret,
		googleClientID: googleClientID,
	}
}

func (s *authService) LoginWithGoogle(ctx context.Context, googleToken string) (string, string, error) {
	payload, err := s.verifier.Verify(ctx, googleToken, s.googleClientID)
	if err != nil {
		return "", "", fmt.Errorf("invalid google token: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, payload.Email)
	if err != nil {
		return "", "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		user = &domain.User{Email: payload.Email, Name: payload.Name}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", "", fmt.Errorf("create user: %w", err)
		}
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	stored, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return "", "", fmt.Errorf("get refresh token: %w", err)
	}
	switch {
	case stored == nil:
		return "", "", errors.New("refresh token not found")
	case stored.Revoked:
		return "", "", errors.New("refresh token revoked")
	case stored.ExpiresAt.Before(time.Now()):
		return "", "", errors.New("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return "", "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return "", "", errors.New("user not found")
	}

	// Rotate: the presented token is revoked and a fresh pair is issued.
	if err := s.authRepo.RevokeRefreshToken(ctx, stored.ID.String()); err != nil {
		return "", "", fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return fmt.Errorf("get refresh token: %w", err)
	}
	if stored == nil {
		return nil
	}
	return s.authRepo.RevokeRefreshToken(ctx, stored.ID.String())
}

func (s *authService) issueTokens(ctx context.Context, user *domain.User) (string, string, error) {
	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	stored := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.authRepo.StoreRefreshToken(ctx, stored); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *authService) signAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   now.Add(accessTokenTTL).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
