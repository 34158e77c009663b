package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-account-api/internal/domain"
	jwtinfra "github.com/go-account-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	claims := &jwtinfra.Claims{UserID: "u1", Role: role}
	return req.WithContext(context.WithValue(req.Context(), ClaimsKey, claims))
}

func TestRequireRole_Allowed(t *testing.T) {
	called := false
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(domain.RoleAdmin))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(domain.RoleUser))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoClaims(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
