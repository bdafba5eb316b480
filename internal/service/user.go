package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/query"
	"github.com/sakif/jobly/internal/repository"
)

// PasswordHasher is the one-way credential primitive. auth.PasswordService
// satisfies it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
}

// userColumns never includes the password hash.
const userColumns = "username, first_name, last_name, email, photo_url, is_admin"

var userConflicts = conflictMessages{
	"username": "Username already exists.",
	"email":    "Email already associated with another username.",
}

// UserService handles business logic for user accounts.
type UserService struct {
	exec      repository.Executor
	passwords PasswordHasher
	logger    *slog.Logger
}

func NewUserService(exec repository.Executor, passwords PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{exec: exec, passwords: passwords, logger: logger}
}

// List returns every user, ordered by username.
func (s *UserService) List(ctx context.Context) ([]model.UserSummary, error) {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: "SELECT username, first_name, last_name, email FROM users ORDER BY username",
	})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users := make([]model.UserSummary, 0, len(rows))
	for _, r := range rows {
		users = append(users, model.UserSummary{
			Username:  r.String("username"),
			FirstName: r.String("first_name"),
			LastName:  r.String("last_name"),
			Email:     r.String("email"),
		})
	}
	return users, nil
}

// Register creates a regular, non-admin account.
func (s *UserService) Register(ctx context.Context, in model.NewUser) (*model.User, error) {
	return s.create(ctx, in, false)
}

// RegisterAdmin creates an account with the admin flag set. It is not
// reachable over HTTP; cmd/seed uses it.
func (s *UserService) RegisterAdmin(ctx context.Context, in model.NewUser) (*model.User, error) {
	return s.create(ctx, in, true)
}

func (s *UserService) create(ctx context.Context, in model.NewUser, isAdmin bool) (*model.User, error) {
	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "Password could not be accepted.")
	}

	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: `INSERT INTO users (username, password, first_name, last_name, email, photo_url, is_admin)
		       VALUES ($1, $2, $3, $4, $5, $6, $7)
		       RETURNING password, ` + userColumns,
		Args: []any{in.Username, hash, in.FirstName, in.LastName, in.Email, nullable(in.PhotoURL), isAdmin},
	})
	if err != nil {
		return nil, s.fault("registering user", in.Username, err)
	}

	user := userFromRow(rows[0])
	s.logger.Info("user registered",
		slog.String("username", user.Username),
		slog.Bool("is_admin", user.IsAdmin),
	)
	return &user, nil
}

// Authenticate checks username and password and returns the stored record,
// hash included. Callers must not expose the hash; model.User never
// serializes it.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: "SELECT password, " + userColumns + " FROM users WHERE username = $1",
		Args: []any{username},
	})
	if err != nil {
		return nil, fmt.Errorf("authenticating user: %w", err)
	}
	if len(rows) == 0 {
		return nil, userNotFound(username)
	}

	user := userFromRow(rows[0])
	if err := s.passwords.Verify(user.Password, password); err != nil {
		s.logger.Warn("login rejected", slog.String("username", username))
		return nil, apperror.Unauthenticated("Invalid username/password")
	}
	return &user, nil
}

// Get returns the user with their applications.
func (s *UserService) Get(ctx context.Context, username string) (*model.UserDetail, error) {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: "SELECT " + userColumns + " FROM users WHERE username = $1",
		Args: []any{username},
	})
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if len(rows) == 0 {
		return nil, userNotFound(username)
	}

	appRows, err := s.exec.Query(ctx, repository.Statement{
		Text: `SELECT job_id AS id, state, created_at FROM applications
		       WHERE username = $1 ORDER BY created_at, job_id`,
		Args: []any{username},
	})
	if err != nil {
		return nil, fmt.Errorf("getting user applications: %w", err)
	}

	detail := &model.UserDetail{
		User: userFromRow(rows[0]),
		Jobs: make([]model.Application, 0, len(appRows)),
	}
	for _, r := range appRows {
		detail.Jobs = append(detail.Jobs, applicationFromRow(r))
	}
	return detail, nil
}

// Update applies the non-nil fields of patch. The password hash and admin
// flag are not part of model.UserPatch and cannot change here.
func (s *UserService) Update(ctx context.Context, username string, patch model.UserPatch) (*model.User, error) {
	var fields []query.Field
	if patch.FirstName != nil {
		fields = append(fields, query.Field{Column: "first_name", Value: *patch.FirstName})
	}
	if patch.LastName != nil {
		fields = append(fields, query.Field{Column: "last_name", Value: *patch.LastName})
	}
	if patch.Email != nil {
		fields = append(fields, query.Field{Column: "email", Value: *patch.Email})
	}
	if patch.PhotoURL != nil {
		fields = append(fields, query.Field{Column: "photo_url", Value: *patch.PhotoURL})
	}
	if len(fields) == 0 {
		return nil, errNoFields
	}

	stmt, err := query.PartialUpdate("users", fields, "username", username)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	rows, err := s.exec.Query(ctx, stmt)
	if err != nil {
		return nil, s.fault("updating user", username, err)
	}
	if len(rows) == 0 {
		return nil, userNotFound(username)
	}

	// RETURNING * brings the hash back; drop it.
	user := userFromRow(rows[0])
	user.Password = ""

	s.logger.Info("user updated", slog.String("username", username), slog.Int("fields", len(fields)))
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	rows, err := s.exec.Query(ctx, repository.Statement{
		Text: "DELETE FROM users WHERE username = $1 RETURNING username",
		Args: []any{username},
	})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if len(rows) == 0 {
		return userNotFound(username)
	}

	s.logger.Info("user deleted", slog.String("username", username))
	return nil
}

func (s *UserService) fault(op, username string, err error) error {
	err = userConflicts.translate(op, err)
	if !isAppError(err) {
		s.logger.Error("user write failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}
	return err
}

func userNotFound(username string) error {
	return apperror.NotFound("User", "username", username)
}
