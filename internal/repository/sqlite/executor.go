package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/jobly/internal/repository"
)

// compile-time check that *DB implements repository.Executor
var _ repository.Executor = (*DB)(nil)

// Query runs stmt and collects every returned row.
//
// INSERT/UPDATE/DELETE ... RETURNING go through here as well. SQLite reports
// constraint failures for those lazily, on the first rows.Next(), so both the
// QueryContext error and rows.Err() are translated.
func (db *DB) Query(ctx context.Context, stmt repository.Statement) ([]repository.Row, error) {
	rows, err := db.conn.QueryContext(ctx, stmt.Text, stmt.Args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading columns: %w", err)
	}

	result := make([]repository.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scanning row: %w", err)
		}

		row := make(repository.Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}

	return result, nil
}

// translate maps SQLite extended result codes onto repository.Fault.
//
// UNIQUE and PRIMARY KEY failures carry "table.column" in the message:
//
//	constraint failed: UNIQUE constraint failed: users.email (2067)
//
// FOREIGN KEY failures carry no column, so Field is left empty.
func translate(err error) error {
	var liteErr *moderncsqlite.Error
	if !errors.As(err, &liteErr) {
		return fmt.Errorf("sqlite: query: %w", err)
	}

	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		table, field := constraintColumn(liteErr.Error())
		return &repository.Fault{Kind: repository.UniqueViolation, Table: table, Field: field, Err: err}
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return &repository.Fault{Kind: repository.ForeignKeyViolation, Err: err}
	default:
		return fmt.Errorf("sqlite: query: %w", err)
	}
}

// constraintColumn pulls the first "table.column" pair out of a constraint
// message. Composite keys list several pairs; the first one is enough to
// name the conflict.
func constraintColumn(msg string) (table, column string) {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return "", ""
	}
	rest := msg[i+len(marker):]
	if end := strings.IndexAny(rest, ", ("); end >= 0 {
		rest = rest[:end]
	}
	table, column, ok := strings.Cut(strings.TrimSpace(rest), ".")
	if !ok {
		return "", table
	}
	return table, column
}
