package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobly/internal/service"
)

// UserHandler serves /users.
//
// Registration goes through the AuthService so the response can carry a
// token; everything else talks to the UserService directly.
type UserHandler struct {
	users  *service.UserService
	auth   *service.AuthService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, authSvc *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, auth: authSvc, logger: logger}
}

// HandleList returns every user.
//
// HTTP: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// HandleRegister creates a non-admin account and returns a token for it.
//
// HTTP: POST /users
// REQUEST BODY: {"username", "password", "first_name", "last_name", "email", "photo_url"?}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	token, err := h.auth.Register(r.Context(), req.model())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// HandleGet returns one user with their applications.
//
// HTTP: GET /users/{username}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleUpdate edits the caller's own profile.
//
// HTTP: PATCH /users/{username}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), chi.URLParam(r, "username"), req.model())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleDelete removes the caller's own account.
//
// HTTP: DELETE /users/{username}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "User deleted"})
}
