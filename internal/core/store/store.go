package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/core/allowlist"
	"github.com/harulabs/mintgate/internal/core/engine"
)

const (
	driverPgx = "pgx"

	uniqueViolation = "23505"
)

// Backend is everything the service needs from persistence.
type Backend interface {
	engine.WalletLookup
	allowlist.Repository
	auth.UserStore
	audit.Store

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*Memory)(nil)
)

// Store wraps the Postgres connection pool.
type Store struct {
	DB     *sql.DB
	driver string
}

// OpenBackend returns the backend selected by cfg.Driver.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case config.DriverMemory, "":
		return NewMemory(), nil
	case config.DriverPostgres:
		return Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

// Open connects to Postgres through the pgx database/sql driver and applies
// pool settings from cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("store dsn is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := sql.Open(driverPgx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres store: %w", err)
	}

	return &Store{DB: db, driver: config.DriverPostgres}, nil
}

// New wraps an existing handle. Used by tests with sqlmock.
func New(db *sql.DB) *Store {
	return &Store{DB: db, driver: config.DriverPostgres}
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Driver returns the configured store driver.
func (s *Store) Driver() string {
	if s == nil {
		return ""
	}
	return s.driver
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errNotInitialized
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return core.StoreError("ping", err)
	}
	return nil
}

var errNotInitialized = fmt.Errorf("%w: store is not initialized", core.ErrStoreUnavailable)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// walletTable maps a tier to its table. The switch is closed so no caller
// input reaches the SQL text.
func walletTable(tier core.Tier) (string, error) {
	switch tier {
	case core.TierOG:
		return "og_wallets", nil
	case core.TierWL:
		return "wl_wallets", nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownTier, tier)
	}
}
