// Package postgres implements repository.Executor on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/jobly/internal/repository"
)

// compile-time check that *DB implements repository.Executor
var _ repository.Executor = (*DB)(nil)

// PostgreSQL SQLSTATE codes handled by translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// DB is a pgx-backed executor.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a connection pool, verifies it and bootstraps the schema.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return db, nil
}

// Ping checks database connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Query runs stmt and collects every returned row, keyed by column name.
func (db *DB) Query(ctx context.Context, stmt repository.Statement) ([]repository.Row, error) {
	rows, err := db.pool.Query(ctx, stmt.Text, stmt.Args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := make([]repository.Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: reading row: %w", err)
		}
		row := make(repository.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}

	return result, nil
}

// keyDetail matches the column list in a constraint detail message:
//
//	Key (email)=(a@b.c) already exists.
//	Key (company_handle)=(nope) is not present in table "companies".
var keyDetail = regexp.MustCompile(`Key \(([^)]+)\)=`)

func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("postgres: query: %w", err)
	}

	var kind repository.FaultKind
	switch pgErr.Code {
	case codeUniqueViolation:
		kind = repository.UniqueViolation
	case codeForeignKeyViolation:
		kind = repository.ForeignKeyViolation
	default:
		return fmt.Errorf("postgres: query: %w", err)
	}

	return &repository.Fault{
		Kind:  kind,
		Table: pgErr.TableName,
		Field: faultField(pgErr),
		Err:   err,
	}
}

// faultField prefers the Detail column list and falls back to the
// constraint name (users_email_key → email).
func faultField(pgErr *pgconn.PgError) string {
	if m := keyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
		first, _, _ := strings.Cut(m[1], ",")
		return strings.TrimSpace(first)
	}
	if pk, ok := primaryKeys[pgErr.ConstraintName]; ok {
		return pk
	}
	name := strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_")
	name = strings.TrimSuffix(name, "_fkey")
	return strings.TrimSuffix(name, "_key")
}

// primaryKeys names the key column behind each default *_pkey constraint.
var primaryKeys = map[string]string{
	"companies_pkey":    "handle",
	"users_pkey":        "username",
	"jobs_pkey":         "id",
	"applications_pkey": "username",
}
