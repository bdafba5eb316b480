// Package service contains the business logic layer of the application.
//
// Each resource (companies, jobs, users and their applications) gets a
// service struct holding only its injected dependencies: the storage
// executor, a logger and, for users, the password hasher. Services build
// statements with the query package, run them, and turn the rows into
// model values.
//
// ERROR TRANSLATION:
// Services are the only layer that turns storage faults into domain errors.
// A repository.Fault of kind UniqueViolation becomes apperror.Conflict with a
// field-specific message; a missing row becomes apperror.NotFound. Anything
// else is wrapped and passed up, and the handler reports it as a 500.
package service

import (
	"errors"
	"fmt"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/repository"
)

// errNoFields is returned for a PATCH body with nothing to change.
var errNoFields = apperror.ValidationFailed("", "No fields to update.")

// conflictMessages maps a unique column to the message reported when it
// collides.
type conflictMessages map[string]string

// translate turns a unique violation on a known column into a Conflict and
// wraps every other error with op.
func (m conflictMessages) translate(op string, err error) error {
	if f, ok := repository.AsFault(err, repository.UniqueViolation); ok {
		if msg, ok := m[f.Field]; ok {
			return apperror.Conflict(f.Field, msg)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isAppError reports whether err already carries a domain kind and should
// propagate untouched.
func isAppError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}
