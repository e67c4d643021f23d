package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/platform/postgres"
	"github.com/flashdeck/flashdeck-api/internal/service/scheduler"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	scheduleStore store.CardScheduleStore
	sessionStore  store.StudySessionStore

	srsService       srs.Service
	schedulerService scheduler.SchedulerService
}

// newApplication creates an application instance with all dependencies
// initialized. Configuration, logger, and database connection must already be
// established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if cfg == nil || logger == nil || db == nil {
		return nil, fmt.Errorf("config, logger, and db are required")
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.scheduleStore = postgres.NewPostgresCardScheduleStore(db, logger)
	app.sessionStore = postgres.NewPostgresStudySessionStore(db, logger)

	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:   cfg.Scheduler.MinEaseFactor,
		MaxIntervalDays: cfg.Scheduler.MaxIntervalDays,
	}))

	app.schedulerService = scheduler.NewSchedulerService(
		db,
		app.scheduleStore,
		app.sessionStore,
		app.srsService,
		logger,
	)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
