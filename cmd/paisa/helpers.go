package main

import (
	"context"
	"fmt"

	"github.com/paisaflow/paisaflow/internal/account"
	"github.com/paisaflow/paisaflow/internal/config"
	"github.com/paisaflow/paisaflow/internal/extract"
	"github.com/paisaflow/paisaflow/internal/registry"
	"github.com/paisaflow/paisaflow/internal/service"
	"github.com/paisaflow/paisaflow/internal/storage"
)

// getDatabase opens the configured database, runs migrations, and
// returns the storage along with a cleanup function.
func getDatabase(ctx context.Context) (service.Storage, func(), error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() { _ = store.Close() }
	return store, cleanup, nil
}

// loadRegistry builds the pattern registry: built-in patterns first,
// then stored ones, so a stored pattern for a built-in bank overrides
// it while keeping its position.
func loadRegistry(ctx context.Context, store service.Storage) (*registry.Registry, error) {
	reg := registry.New()
	if err := registry.Seed(reg); err != nil {
		return nil, err
	}

	stored, err := store.GetBankPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank patterns: %w", err)
	}
	for _, pattern := range stored {
		if err := reg.Register(pattern); err != nil {
			return nil, fmt.Errorf("stored pattern %s: %w", pattern.BankName, err)
		}
	}
	return reg, nil
}

// newPipeline wires a ready-to-use extraction pipeline over the given
// storage.
func newPipeline(ctx context.Context, store service.Storage) (*extract.Pipeline, error) {
	reg, err := loadRegistry(ctx, store)
	if err != nil {
		return nil, err
	}
	return extract.NewPipeline(reg, account.NewResolver(), store, extract.DefaultConfig())
}
