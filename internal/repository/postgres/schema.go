package postgres

import (
	"context"
	"fmt"
)

// schema is the bootstrap DDL. It is idempotent and runs on every start.
var schema = []struct {
	name string
	ddl  string
}{
	{"companies", `
		CREATE TABLE IF NOT EXISTS companies (
			handle        TEXT PRIMARY KEY,
			name          TEXT NOT NULL UNIQUE,
			num_employees INTEGER NOT NULL DEFAULT 0 CHECK (num_employees >= 0),
			description   TEXT NOT NULL DEFAULT 'No description available.',
			logo_url      TEXT
		)`},
	{"jobs", `
		CREATE TABLE IF NOT EXISTS jobs (
			id             SERIAL PRIMARY KEY,
			title          TEXT NOT NULL,
			salary         INTEGER NOT NULL,
			equity         DOUBLE PRECISION NOT NULL CHECK (equity >= 0 AND equity <= 1),
			company_handle TEXT NOT NULL REFERENCES companies(handle) ON DELETE CASCADE,
			date_posted    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"jobs index", `CREATE INDEX IF NOT EXISTS idx_jobs_company_handle ON jobs(company_handle)`},
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			username   TEXT PRIMARY KEY,
			password   TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			photo_url  TEXT,
			is_admin   BOOLEAN NOT NULL DEFAULT FALSE
		)`},
	{"applications", `
		CREATE TABLE IF NOT EXISTS applications (
			username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			job_id     INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			state      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (username, job_id)
		)`},
}

func (db *DB) migrate(ctx context.Context) error {
	for _, s := range schema {
		if _, err := db.pool.Exec(ctx, s.ddl); err != nil {
			return fmt.Errorf("creating %s: %w", s.name, err)
		}
	}
	return nil
}
