package repository

import (
	"errors"
	"fmt"
)

// FaultKind classifies constraint violations reported by an executor.
type FaultKind int

const (
	UniqueViolation FaultKind = iota + 1
	ForeignKeyViolation
)

func (k FaultKind) String() string {
	switch k {
	case UniqueViolation:
		return "unique violation"
	case ForeignKeyViolation:
		return "foreign key violation"
	default:
		return "unknown fault"
	}
}

// Fault is the engine-neutral form of a constraint violation.
//
// Field is the offending column (e.g. "email" for users.email). Table may be
// empty when the engine does not report it.
type Fault struct {
	Kind  FaultKind
	Table string
	Field string
	Err   error
}

func (f *Fault) Error() string {
	if f.Table != "" {
		return fmt.Sprintf("%s on %s.%s", f.Kind, f.Table, f.Field)
	}
	return fmt.Sprintf("%s on %s", f.Kind, f.Field)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// AsFault extracts a *Fault of the given kind from err's chain.
func AsFault(err error, kind FaultKind) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) && f.Kind == kind {
		return f, true
	}
	return nil, false
}
