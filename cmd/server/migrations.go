package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/flashdeck/flashdeck-api/migrations"
)

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error("goose fatal error", "message", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info("goose", "message", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// runMigrations applies all pending embedded migrations against the given
// database.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	logger.Info("applying database migrations")
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("database migrations applied", slog.Int64("version", version))
	return nil
}
