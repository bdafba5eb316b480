// Package repository defines the storage contract the rest of the
// application talks to.
//
// The contract is deliberately small: a Statement (SQL text plus ordered
// positional arguments) goes in, a slice of Rows comes out. Every statement
// is executed as one atomic round-trip; there are no multi-statement
// transactions. Engine-specific implementations live in the postgres and
// sqlite sub-packages.
//
// PLACEHOLDERS:
// Statements always use PostgreSQL-style positional placeholders ($1, $2, ...).
// Both engines bind them by ordinal, so one compiled statement runs unchanged
// on either backend.
package repository

import (
	"context"
)

// Statement is the unit the compilers produce and executors consume.
type Statement struct {
	Text string
	Args []any
}

// Executor runs a single parameterized statement.
//
// Implementations must translate engine constraint errors into *Fault so
// callers never inspect driver-specific error codes.
type Executor interface {
	Query(ctx context.Context, stmt Statement) ([]Row, error)
}

// Pinger is implemented by executors that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
