package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/model"
)

// AuthService issues tokens for the login and registration flows.
//
//	AuthHandler (HTTP) → AuthService → UserService (credentials, storage)
//	                               ↘ TokenService (JWT)
//
// The token payload is {username, is_admin}. The user record handed to
// Generate may carry the password hash; only those two fields are read.
type AuthService struct {
	users  *UserService
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthService(users *UserService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login verifies the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))
	return s.issue(user)
}

// Register creates a regular account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in model.NewUser) (string, error) {
	user, err := s.users.Register(ctx, in)
	if err != nil {
		return "", err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (string, error) {
	token, err := s.tokens.Generate(user.Username, user.IsAdmin)
	if err != nil {
		return "", fmt.Errorf("issuing token for %s: %w", user.Username, err)
	}
	return token, nil
}
