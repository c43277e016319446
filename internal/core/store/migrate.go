package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS og_wallets (
		wallet_address TEXT PRIMARY KEY,
		mints_allowed INTEGER NOT NULL DEFAULT 1 CHECK (mints_allowed >= 0),
		mints_used INTEGER NOT NULL DEFAULT 0 CHECK (mints_used >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_og_wallets_created ON og_wallets(created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS wl_wallets (
		wallet_address TEXT PRIMARY KEY,
		mints_allowed INTEGER NOT NULL DEFAULT 3 CHECK (mints_allowed >= 0),
		mints_used INTEGER NOT NULL DEFAULT 0 CHECK (mints_used >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_wl_wallets_created ON wl_wallets(created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		roles TEXT NOT NULL DEFAULT 'admin',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		actor TEXT NOT NULL,
		tier TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		details JSONB,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_created ON audit_events(created_at DESC);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}
	return nil
}
