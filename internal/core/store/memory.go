package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core"
)

// Memory is an in-process backend with the same semantics as Store. Data is
// lost when the process exits.
type Memory struct {
	mu      sync.RWMutex
	wallets map[core.Tier]map[string]core.WalletEntry
	users   map[string]auth.User
	events  []audit.Event

	// failWith, when set, is returned by every operation.
	failWith error
}

// NewMemory returns an empty memory backend.
func NewMemory() *Memory {
	return &Memory{
		wallets: map[core.Tier]map[string]core.WalletEntry{
			core.TierOG: {},
			core.TierWL: {},
		},
		users: map[string]auth.User{},
	}
}

// SetFailure makes every subsequent call fail with a store error wrapping
// err. Pass nil to recover.
func (m *Memory) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *Memory) Migrate(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) Driver() string { return config.DriverMemory }

func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failure("ping")
}

func (m *Memory) ListWallets(_ context.Context, tier core.Tier) ([]core.WalletEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("list wallets"); err != nil {
		return nil, err
	}
	table, err := m.table(tier)
	if err != nil {
		return nil, err
	}

	wallets := make([]core.WalletEntry, 0, len(table))
	for _, entry := range table {
		wallets = append(wallets, entry)
	}
	slices.SortFunc(wallets, func(a, b core.WalletEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Address, b.Address)
	})
	return wallets, nil
}

func (m *Memory) GetWallet(_ context.Context, tier core.Tier, address string) (*core.WalletEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("get wallet"); err != nil {
		return nil, err
	}
	table, err := m.table(tier)
	if err != nil {
		return nil, err
	}

	entry, ok := table[address]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &entry, nil
}

func (m *Memory) InsertWallets(_ context.Context, tier core.Tier, entries []core.WalletEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("insert wallets"); err != nil {
		return err
	}
	table, err := m.table(tier)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, exists := table[entry.Address]; exists {
			return fmt.Errorf("%s: %w", entry.Address, core.ErrDuplicateWallet)
		}
		if _, dup := seen[entry.Address]; dup {
			return fmt.Errorf("%s: %w", entry.Address, core.ErrDuplicateWallet)
		}
		seen[entry.Address] = struct{}{}
	}

	for _, entry := range entries {
		entry.Tier = tier
		table[entry.Address] = entry
	}
	return nil
}

func (m *Memory) DeleteWallet(_ context.Context, tier core.Tier, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("delete wallet"); err != nil {
		return err
	}
	table, err := m.table(tier)
	if err != nil {
		return err
	}

	if _, ok := table[address]; !ok {
		return core.ErrNotFound
	}
	delete(table, address)
	return nil
}

func (m *Memory) UpdateAllowance(_ context.Context, tier core.Tier, address string, allowed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("update allowance"); err != nil {
		return err
	}
	table, err := m.table(tier)
	if err != nil {
		return err
	}

	entry, ok := table[address]
	if !ok {
		return core.ErrNotFound
	}
	entry.MintsAllowed = allowed
	table[address] = entry
	return nil
}

// SetMintsUsed seeds the mints_used counter, which the service itself never
// writes. Intended for fixtures.
func (m *Memory) SetMintsUsed(tier core.Tier, address string, used int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, err := m.table(tier)
	if err != nil {
		return err
	}
	entry, ok := table[address]
	if !ok {
		return core.ErrNotFound
	}
	entry.MintsUsed = used
	table[address] = entry
	return nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("find admin user"); err != nil {
		return nil, err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	u.Roles = slices.Clone(u.Roles)
	return &u, nil
}

func (m *Memory) CreateUser(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("create admin user"); err != nil {
		return err
	}
	if _, ok := m.users[user.Email]; ok {
		return auth.ErrUserExists
	}
	stored := *user
	stored.Roles = slices.Clone(user.Roles)
	m.users[user.Email] = stored
	return nil
}

func (m *Memory) InsertAuditEvent(_ context.Context, event audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("insert audit event"); err != nil {
		return err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *Memory) ListAuditEvents(_ context.Context, limit int) ([]audit.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("list audit events"); err != nil {
		return nil, err
	}

	limit = audit.ClampLimit(limit)
	events := make([]audit.Event, 0, min(limit, len(m.events)))
	for i := len(m.events) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, m.events[i])
	}
	return events, nil
}

func (m *Memory) table(tier core.Tier) (map[string]core.WalletEntry, error) {
	table, ok := m.wallets[tier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownTier, tier)
	}
	return table, nil
}

func (m *Memory) failure(op string) error {
	if m.failWith == nil {
		return nil
	}
	return core.StoreError(op, m.failWith)
}
