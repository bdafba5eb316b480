package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// Table-driven: each case checks that errors.Is() sees the sentinel through
// the *AppError, including when the error has been wrapped again.
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("company", "handle", "acme"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("email", "Email already associated with another username."),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("You must be authenticated"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("This route requires admin access"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("finding job: %w", NotFound("Job", "id", "9")),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("company", "handle", "acme"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Forbidden does NOT match ErrUnauthenticated",
			err:       Forbidden("nope"),
			target:    ErrUnauthenticated,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound names resource and key",
			err:         NotFound("Job", "id", "999"),
			wantMessage: "No Job found with id 999",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("id", "Id must be an integer."),
			wantMessage: "Id must be an integer.",
		},
		{
			name:        "Conflict uses custom message",
			err:         Conflict("name", "Company name already exists."),
			wantMessage: "Company name already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("User", "username", "ghost")

	if err.Unwrap() != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), ErrNotFound)
	}
}

func TestFieldIsRecorded(t *testing.T) {
	if err := Conflict("email", "taken"); err.Field != "email" {
		t.Errorf("Conflict Field = %q, want %q", err.Field, "email")
	}
	if err := NotFound("company", "handle", "x"); err.Field != "handle" {
		t.Errorf("NotFound Field = %q, want %q", err.Field, "handle")
	}
}
