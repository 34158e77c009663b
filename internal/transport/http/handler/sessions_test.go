package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-account-api/internal/application/session"
	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionService struct{ mock.Mock }

func (m *mockSessionService) Login(ctx context.Context, req session.LoginRequest) (*session.TokenPair, *domain.User, error) {
	args := m.Called(ctx, req)
	pair, _ := args.Get(0).(*session.TokenPair)
	u, _ := args.Get(1).(*domain.User)
	return pair, u, args.Error(2)
}

func (m *mockSessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginHandler_SetsCookies(t *testing.T) {
	svc := &mockSessionService{}
	pair := &session.TokenPair{AccessToken: "acc", RefreshToken: "ref"}
	u := &domain.User{UserID: "u1", Email: "a@x.com"}
	svc.On("Login", mock.Anything, session.LoginRequest{Email: "a@x.com", Password: "secret1"}).Return(pair, u, nil)

	h := NewSessionHandler(svc, false)
	req := httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	}))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	access := cookieByName(t, rec, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "acc", access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := cookieByName(t, rec, refreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "ref", refresh.Value)

	var resp AuthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acc", resp.AccessToken)
	assert.Equal(t, "ref", resp.RefreshToken)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, nil, domain.ErrBadRequest)

	h := NewSessionHandler(svc, false)
	req := httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	}))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, cookieByName(t, rec, middleware.AccessTokenCookie))
}

func TestRefreshHandler_FromCookie(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Refresh", mock.Anything, "ref").Return("newacc", nil)

	h := NewSessionHandler(svc, false)
	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "ref"})
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	access := cookieByName(t, rec, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "newacc", access.Value)
}

func TestRefreshHandler_FromBody(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Refresh", mock.Anything, "ref").Return("newacc", nil)

	h := NewSessionHandler(svc, false)
	req := httptest.NewRequest(http.MethodGet, "/refresh", jsonBody(t, map[string]string{"refresh_token": "ref"}))
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshHandler_MissingToken(t *testing.T) {
	svc := &mockSessionService{}
	h := NewSessionHandler(svc, false)

	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestRefreshHandler_Expired(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Refresh", mock.Anything, "stale").Return("", domain.ErrUnauthorized)

	h := NewSessionHandler(svc, false)
	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutHandler_ClearsCookies(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{}, false)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		c := cookieByName(t, rec, name)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}
