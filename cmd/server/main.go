// Package main implements the entry point for the flashdeck API server,
// which schedules spaced repetition reviews for users' flashcards.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run wires the full application: configuration, logging, database,
// migrations, dependency construction, and the HTTP server.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(context.Background())
}
