// Package storage opens the executor selected by DB_DRIVER.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/jobly/internal/config"
	"github.com/sakif/jobly/internal/repository"
	"github.com/sakif/jobly/internal/repository/postgres"
	"github.com/sakif/jobly/internal/repository/sqlite"
)

// Open connects to the configured database and returns the executor with a
// function that releases it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Executor, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to postgres")
		return db, db.Close, nil

	case config.DriverSQLite:
		// Ensure the data directory exists (like `mkdir -p`).
		if cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
				return nil, nil, fmt.Errorf("storage: creating database directory: %w", err)
			}
		}
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("opened sqlite database", slog.String("path", cfg.SQLitePath))
		return db, func() {
			if err := db.Close(); err != nil {
				logger.Error("closing sqlite database", slog.String("error", err.Error()))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", cfg.DBDriver)
	}
}
