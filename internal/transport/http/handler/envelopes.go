package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-account-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login/refresh responses. Tokens also travel as httpOnly
// cookies; the body copies are for non-browser clients.
type AuthEnvelope struct {
	Message      string       `json:"message,omitempty"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *domain.User `json:"user,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// UserEnvelope wraps single-user responses.
type UserEnvelope struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

// PaginatedUsersEnvelope wraps user list responses.
type PaginatedUsersEnvelope struct {
	Users      []domain.User `json:"users"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// OTPEnvelope wraps OTP issuance responses. Sent=false means the code was
// committed but delivery failed; the client may retry the send endpoint
// without invalidating the code.
type OTPEnvelope struct {
	Message string `json:"message"`
	Sent    bool   `json:"sent"`
}

// verboseErrors controls whether unexpected errors reach clients verbatim.
// Enabled only in development mode by the router.
var verboseErrors bool

// SetVerboseErrors toggles detailed 500 bodies. Call once during router setup.
func SetVerboseErrors(v bool) { verboseErrors = v }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to status codes. Anything unmapped is
// logged with full detail and sanitized to a generic 500 outside development.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("unhandled error", "err", err)
		if verboseErrors {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
