package main

import (
	"context"
	"fmt"

	"github.com/driveline-io/driveline/internal/config"
	"github.com/driveline-io/driveline/internal/engine"
	"github.com/driveline-io/driveline/internal/service"
	"github.com/driveline-io/driveline/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the session log with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/driveline/driveline.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine loads and validates the scoring configuration and builds the
// engine. Configuration problems are fatal before any score is computed.
func initEngine() (*engine.Engine, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return engine.New(cfg)
}
