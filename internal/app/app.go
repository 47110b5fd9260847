// Package app defines the App struct that composes the tracker's
// shared dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger
//   - the single store handle (opened and migrated in New, released in Close)
//
// Everything else (repositories, services, the shell) borrows from it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/perftracker/internal/config"
	"github.com/deppfellow/perftracker/internal/database"
)

// App is the application container that holds shared resources.
type App struct {
	// Config holds all configuration values for the run.
	Config *config.Config

	// Logger is the application's structured logger (stderr).
	Logger *zerolog.Logger

	// DB is the store handle, passed by reference to every repository.
	DB *database.Database
}

// New constructs an App and acquires the store.
//
// Initialization performed:
//   - open + ping the store selected by cfg.Database.Driver
//   - run the schema manager so the three tables exist
//
// Both steps are fatal to startup: on failure everything acquired so
// far is released and the error is returned.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(ctx, logger, cfg, db); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create schema: %w", err), closeErr)
	}

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}, nil
}

// Close releases the store. It is safe to call on a nil App.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
