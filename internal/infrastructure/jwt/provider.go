package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-account-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired means the token was well-formed and correctly signed but is
	// past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers malformed tokens, bad signatures and tokens of the
	// wrong kind (access presented as refresh or vice versa).
	ErrInvalid = errors.New("invalid token")
)

// Claims is the fixed-shape JWT payload. No open map: the issuer's contract
// is statically checkable.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs. Access and refresh tokens are
// signed with distinct secrets, so one kind never verifies as the other.
// There is no revocation list: a leaked refresh token stays valid until it
// expires, which is the documented trade-off of stateless sessions.
type Provider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &Provider{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

// IssueAccess mints a short-lived access token for the given subject.
func (p *Provider) IssueAccess(userID, role string) (string, error) {
	return sign(userID, role, p.accessSecret, p.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the given subject.
func (p *Provider) IssueRefresh(userID, role string) (string, error) {
	return sign(userID, role, p.refreshSecret, p.refreshTTL)
}

// VerifyAccess validates an access token and returns its claims.
func (p *Provider) VerifyAccess(token string) (*Claims, error) {
	return verify(token, p.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (p *Provider) VerifyRefresh(token string) (*Claims, error) {
	return verify(token, p.refreshSecret)
}

func sign(userID, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func verify(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
