// Package sqlite implements repository.Executor on top of modernc.org/sqlite.
//
// It is the embedded backend: local development without a database server,
// and the engine every test in this module runs against (":memory:").
//
// modernc.org/sqlite is a pure Go translation of SQLite, so no C toolchain is
// needed. It binds $NNN parameters by ordinal, which lets the compiled
// PostgreSQL-style statements run here unchanged.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and bootstraps the schema.
//
// dbPath examples:
//   - "data/jobly.db"  → file-based database (persistent)
//   - ":memory:"       → in-memory database (tests)
//
// The pool is capped at one connection: SQLite allows a single writer, and
// every connection to ":memory:" would otherwise see its own empty database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// connPragmas run on every connection the driver opens. Foreign keys are OFF
// by default in SQLite and the setting is per connection; jobs → companies
// and applications → users/jobs depend on it.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// dsn appends connPragmas to dbPath. modernc strips the query from plain
// paths (":memory:", "data/jobly.db") before opening the file.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + connPragmas
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks database connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS makes it safe to run
// on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS companies (
			handle        TEXT PRIMARY KEY,
			name          TEXT NOT NULL UNIQUE,
			num_employees INTEGER NOT NULL DEFAULT 0 CHECK (num_employees >= 0),
			description   TEXT NOT NULL DEFAULT 'No description available.',
			logo_url      TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("creating companies table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT NOT NULL,
			salary         INTEGER NOT NULL,
			equity         REAL NOT NULL CHECK (equity >= 0 AND equity <= 1),
			company_handle TEXT NOT NULL REFERENCES companies(handle) ON DELETE CASCADE,
			date_posted    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_company_handle ON jobs(company_handle);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			username   TEXT PRIMARY KEY,
			password   TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			photo_url  TEXT,
			is_admin   BOOLEAN NOT NULL DEFAULT FALSE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			job_id     INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			state      TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (username, job_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating applications table: %w", err)
	}

	return nil
}
