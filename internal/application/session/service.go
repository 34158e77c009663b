package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-account-api/internal/domain"
	jwtinfra "github.com/go-account-api/internal/infrastructure/jwt"
	"github.com/go-account-api/internal/pkg/password"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is an access/refresh token couple. Neither token is stored
// server-side; validity is signature plus embedded expiry. Logout therefore
// clears cookies only; issued tokens outlive the call until they expire.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type tokenIssuer interface {
	IssueAccess(userID, role string) (string, error)
	IssueRefresh(userID, role string) (string, error)
	VerifyRefresh(token string) (*jwtinfra.Claims, error)
}

type service struct {
	repo   userStore
	issuer tokenIssuer
	hasher *password.Hasher
}

func NewService(repo userStore, issuer tokenIssuer, hasher *password.Hasher) Service {
	return &service{repo: repo, issuer: issuer, hasher: hasher}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenPair, *domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same failure as a wrong password, so email existence is never revealed.
		return nil, nil, fmt.Errorf("invalid email or password: %w", domain.ErrBadRequest)
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return nil, nil, fmt.Errorf("invalid email or password: %w", domain.ErrBadRequest)
	}
	access, err := s.issuer.IssueAccess(u.UserID, u.Role)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.issuer.IssueRefresh(u.UserID, u.Role)
	if err != nil {
		return nil, nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, u, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwtinfra.ErrExpired) {
			return "", fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	// Re-fetch the user so the new access token carries the current role, and
	// so tokens for deleted accounts stop refreshing.
	u, err := s.repo.Get(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("user no longer exists: %w", domain.ErrUnauthorized)
	}
	return s.issuer.IssueAccess(u.UserID, u.Role)
}
