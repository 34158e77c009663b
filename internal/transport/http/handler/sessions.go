package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-account-api/internal/application/session"
	"github.com/go-account-api/internal/pkg/validate"
	"github.com/go-account-api/internal/transport/http/middleware"
)

const refreshTokenCookie = "refresh_token"

// SessionHandler handles login, logout and token refresh.
type SessionHandler struct {
	svc           session.Service
	secureCookies bool
}

func NewSessionHandler(svc session.Service, secureCookies bool) *SessionHandler {
	return &SessionHandler{svc: svc, secureCookies: secureCookies}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tokens, u, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	h.setCookie(w, middleware.AccessTokenCookie, tokens.AccessToken)
	h.setCookie(w, refreshTokenCookie, tokens.RefreshToken)
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Message:      "login successful",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         u,
	})
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFrom(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "refresh token missing")
		return
	}
	access, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		httpError(w, err)
		return
	}
	h.setCookie(w, middleware.AccessTokenCookie, access)
	writeJSON(w, http.StatusOK, AuthEnvelope{AccessToken: access})
}

// Logout clears the auth cookies. Tokens are stateless, so anything already
// issued stays valid until its expiry.
func (h *SessionHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearCookie(w, middleware.AccessTokenCookie)
	h.clearCookie(w, refreshTokenCookie)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

// refreshTokenFrom reads the refresh token from the cookie, falling back to a
// JSON body for non-browser clients.
func refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(refreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	return body.RefreshToken
}

func (h *SessionHandler) setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *SessionHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
