package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/repository/sqlite"
)

// =========================================================================
// TEST ENVIRONMENT
// =========================================================================
//
// Every test gets its own in-memory SQLite database with the full schema, so
// the services run the same statements they run in production.

type testEnv struct {
	ctx       context.Context
	companies *CompanyService
	jobs      *JobService
	users     *UserService
	auth      *AuthService
	tokens    *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenService("service-test-secret-0123456789", 0)
	require.NoError(t, err)

	users := NewUserService(db, auth.NewPasswordServiceForTest(), logger)
	return &testEnv{
		ctx:       context.Background(),
		companies: NewCompanyService(db, logger),
		jobs:      NewJobService(db, logger),
		users:     users,
		auth:      NewAuthService(users, tokens, logger),
		tokens:    tokens,
	}
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) company(t *testing.T, name string, employees int) *model.Company {
	t.Helper()
	c, err := e.companies.Create(e.ctx, model.NewCompany{Name: name, NumEmployees: employees})
	require.NoError(t, err)
	return c
}

func (e *testEnv) job(t *testing.T, title string, salary int, equity float64, handle string) *model.Job {
	t.Helper()
	j, err := e.jobs.Create(e.ctx, model.NewJob{
		Title:         title,
		Salary:        salary,
		Equity:        equity,
		CompanyHandle: handle,
	})
	require.NoError(t, err)
	return j
}

func (e *testEnv) user(t *testing.T, username, email string) *model.User {
	t.Helper()
	u, err := e.users.Register(e.ctx, model.NewUser{
		Username:  username,
		Password:  "secret",
		FirstName: "First",
		LastName:  "Last",
		Email:     email,
	})
	require.NoError(t, err)
	return u
}

// assertKind checks err carries the given apperror sentinel and message.
func assertKind(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, message, appErr.Message)
}
