// Package main is the entry point for the Jobly API server.
//
// The main package is kept minimal. Its job is to:
// 1. Read configuration (.env file, then environment variables)
// 2. Create dependencies (logger, database connection)
// 3. Start the server and stop it on SIGINT/SIGTERM
//
// All actual logic lives in imported packages (internal/server, internal/service, etc.).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sakif/jobly/internal/config"
	"github.com/sakif/jobly/internal/server"
	"github.com/sakif/jobly/internal/storage"
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exec, closeDB, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeDB()

	srv, err := server.New(cfg, exec, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until ctx is cancelled (Ctrl+C or SIGTERM).
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		closeDB()
		os.Exit(1)
	}
}
