package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/jobly/internal/service"
)

// AuthHandler exchanges credentials for a token.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

// HandleLogin verifies a username/password pair.
//
// HTTP: POST /login
// REQUEST BODY: {"username": "...", "password": "..."}
// RESPONSE: {"token": "<jwt>"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
