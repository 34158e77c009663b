package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-account-api/internal/application/user"
	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/pkg/validate"
	"github.com/go-account-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles registration and user CRUD endpoints.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserEnvelope{Message: "registration successful", User: u})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")
	users, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaginatedUsersEnvelope{Users: users, NextCursor: next})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if !canModify(r, targetID) {
		writeError(w, http.StatusForbidden, "cannot modify another user")
		return
	}
	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Update(r.Context(), targetID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if !canModify(r, targetID) {
		writeError(w, http.StatusForbidden, "cannot modify another user")
		return
	}
	if err := h.svc.Delete(r.Context(), targetID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user deleted"})
}

// canModify allows the owner of the record or an admin.
func canModify(r *http.Request, targetID string) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.UserID == targetID || claims.Role == domain.RoleAdmin
}
