package cmd

import (
	"context"
	"fmt"

	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core/store"
	"github.com/harulabs/mintgate/internal/observability"
)

// openBackend connects to the configured store and applies the schema.
func openBackend(ctx context.Context, cfg config.StoreConfig) (store.Backend, error) {
	backend, err := store.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	if err := backend.Migrate(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("migrate %s store: %w", backend.Driver(), err)
	}

	if backend.Driver() == config.DriverMemory {
		observability.CLILogger.Warn("Using the in-memory store; changes are discarded on exit")
	}
	return backend, nil
}

// withBackend loads config, opens the store and runs fn against it.
func withBackend(ctx context.Context, fn func(*config.Config, store.Backend) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer backend.Close() // nolint:errcheck // best-effort cleanup

	return fn(cfg, backend)
}
