package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// UsersHandler handles user management endpoints (admin only).
type UsersHandler struct {
	DB *sql.DB
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := store.GetUser(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if u == nil {
		jsonError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, u)
}

// UpdateRole handles PUT /api/users/{id}/role.
func (h *UsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleFaculty && req.Role != model.RoleStudent {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid role")
		return
	}

	id := r.PathValue("id")
	claims := GetClaims(r.Context())
	if id == claims.UserID() && req.Role != model.RoleAdmin {
		jsonError(w, http.StatusBadRequest, "invalid_input", "cannot demote yourself")
		return
	}

	err := store.UpdateUserRole(r.Context(), h.DB, id, req.Role)
	if errors.Is(err, model.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user role changed", "user_id", id, "role", req.Role, "by", claims.UserID())
	h.Get(w, r)
}
