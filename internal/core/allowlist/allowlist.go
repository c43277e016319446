// Package allowlist implements administration of the OG and WL allowlists.
package allowlist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/metrics"
)

// CSVHeader is the first line of every export.
const CSVHeader = "Wallet Address,Mints Allowed,Mints Used"

// Operation names used for metrics.
const (
	OpAdd             = "add"
	OpRemove          = "remove"
	OpUpdateAllowance = "update_allowance"
	OpList            = "list"
	OpExport          = "export"
)

// Repository is the persistence surface the service needs. Implementations
// must insert a batch atomically and report missing rows as core.ErrNotFound.
type Repository interface {
	ListWallets(ctx context.Context, tier core.Tier) ([]core.WalletEntry, error)
	InsertWallets(ctx context.Context, tier core.Tier, entries []core.WalletEntry) error
	DeleteWallet(ctx context.Context, tier core.Tier, address string) error
	UpdateAllowance(ctx context.Context, tier core.Tier, address string, allowed int) error
}

// Auditor receives successful mutations.
type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

// AddResult summarizes a successful batch insert.
type AddResult struct {
	Tier    core.Tier `json:"tier"`
	Added   []string  `json:"added"`
	Allowed int       `json:"mints_allowed"`
}

// Service performs validated allowlist mutations and reads.
type Service struct {
	Repo    Repository
	Auditor Auditor
	Logger  *zap.Logger
	Clock   func() time.Time
}

// NewService wires a Service. auditor and logger may be nil.
func NewService(repo Repository, auditor Auditor, logger *zap.Logger) *Service {
	return &Service{Repo: repo, Auditor: auditor, Logger: logger}
}

// AddWallets validates every line and inserts the batch with the tier's
// default allowance. Any invalid address rejects the whole batch.
func (s *Service) AddWallets(ctx context.Context, tier core.Tier, lines []string) (*AddResult, error) {
	addresses := core.NormalizeAddressLines(lines)
	if len(addresses) == 0 {
		return nil, core.ErrNoAddresses
	}

	partition := core.PartitionAddresses(addresses)
	if len(partition.Invalid) > 0 {
		metrics.RecordAdminOperation(OpAdd, tier.String(), false)
		return nil, &core.ValidationError{Invalid: partition.Invalid}
	}

	now := s.now().UTC()
	allowed := tier.DefaultAllowance()
	entries := make([]core.WalletEntry, 0, len(partition.Valid))
	for _, address := range partition.Valid {
		entries = append(entries, core.WalletEntry{
			Address:      address,
			Tier:         tier,
			MintsAllowed: allowed,
			MintsUsed:    0,
			CreatedAt:    now,
		})
	}

	if err := s.repo().InsertWallets(ctx, tier, entries); err != nil {
		metrics.RecordAdminOperation(OpAdd, tier.String(), false)
		return nil, s.storeFailure("insert wallets", tier, err)
	}

	metrics.RecordAdminOperation(OpAdd, tier.String(), true)
	s.record(ctx, audit.Event{
		Action:  audit.ActionWalletsAdd,
		Tier:    tier.String(),
		Details: map[string]any{"count": len(entries), "addresses": partition.Valid},
	})
	return &AddResult{Tier: tier, Added: partition.Valid, Allowed: allowed}, nil
}

// RemoveWallet deletes address from tier.
func (s *Service) RemoveWallet(ctx context.Context, tier core.Tier, address string) error {
	if err := s.repo().DeleteWallet(ctx, tier, address); err != nil {
		metrics.RecordAdminOperation(OpRemove, tier.String(), false)
		return s.storeFailure("delete wallet", tier, err)
	}

	metrics.RecordAdminOperation(OpRemove, tier.String(), true)
	s.record(ctx, audit.Event{Action: audit.ActionWalletsRemove, Tier: tier.String(), Subject: address})
	return nil
}

// UpdateAllowance sets mints_allowed for an existing wallet. mints_used is
// left untouched.
func (s *Service) UpdateAllowance(ctx context.Context, tier core.Tier, address string, allowed int) error {
	if allowed < core.MinAllowance || allowed > core.MaxAllowance {
		metrics.RecordAdminOperation(OpUpdateAllowance, tier.String(), false)
		return fmt.Errorf("%w: got %d", core.ErrAllowanceOutOfRange, allowed)
	}

	if err := s.repo().UpdateAllowance(ctx, tier, address, allowed); err != nil {
		metrics.RecordAdminOperation(OpUpdateAllowance, tier.String(), false)
		return s.storeFailure("update allowance", tier, err)
	}

	metrics.RecordAdminOperation(OpUpdateAllowance, tier.String(), true)
	s.record(ctx, audit.Event{
		Action:  audit.ActionWalletsUpdateAllowance,
		Tier:    tier.String(),
		Subject: address,
		Details: map[string]any{"mints_allowed": allowed},
	})
	return nil
}

// ListWallets returns the tier's wallets newest first, optionally filtered by
// a case-insensitive substring of the address.
func (s *Service) ListWallets(ctx context.Context, tier core.Tier, search string) ([]core.WalletEntry, error) {
	wallets, err := s.repo().ListWallets(ctx, tier)
	if err != nil {
		metrics.RecordAdminOperation(OpList, tier.String(), false)
		return nil, s.storeFailure("list wallets", tier, err)
	}

	SortNewestFirst(wallets)
	wallets = FilterWallets(wallets, search)
	if wallets == nil {
		wallets = []core.WalletEntry{}
	}
	return wallets, nil
}

// ExportCSV renders the tier as CSV with no trailing newline.
func (s *Service) ExportCSV(ctx context.Context, tier core.Tier) ([]byte, error) {
	wallets, err := s.ListWallets(ctx, tier, "")
	if err != nil {
		return nil, err
	}
	metrics.RecordAdminOperation(OpExport, tier.String(), true)
	return []byte(RenderCSV(wallets)), nil
}

// ExportFilename is the download name for a tier export.
func ExportFilename(tier core.Tier) string {
	return strings.ToLower(tier.String()) + "-wallets.csv"
}

// RenderCSV joins the header and one row per wallet with "\n". Addresses are
// never quoted; validated addresses cannot contain commas.
func RenderCSV(wallets []core.WalletEntry) string {
	lines := make([]string, 0, len(wallets)+1)
	lines = append(lines, CSVHeader)
	for _, w := range wallets {
		lines = append(lines, strings.Join([]string{
			w.Address,
			strconv.Itoa(w.MintsAllowed),
			strconv.Itoa(w.MintsUsed),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// FilterWallets keeps wallets whose address contains search, ignoring case.
// An empty search returns the input unchanged.
func FilterWallets(wallets []core.WalletEntry, search string) []core.WalletEntry {
	if search == "" {
		return wallets
	}
	needle := strings.ToLower(search)
	out := make([]core.WalletEntry, 0, len(wallets))
	for _, w := range wallets {
		if strings.Contains(strings.ToLower(w.Address), needle) {
			out = append(out, w)
		}
	}
	return out
}

// SortNewestFirst orders by created_at descending, ties by address.
func SortNewestFirst(wallets []core.WalletEntry) {
	slices.SortStableFunc(wallets, func(a, b core.WalletEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Address, b.Address)
	})
}

func (s *Service) repo() Repository {
	if s == nil || s.Repo == nil {
		return unavailableRepo{}
	}
	return s.Repo
}

func (s *Service) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) logger() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) record(ctx context.Context, event audit.Event) {
	if s == nil || s.Auditor == nil {
		return
	}
	s.Auditor.Record(ctx, event)
}

// storeFailure passes domain errors through and marks everything else as a
// store outage.
func (s *Service) storeFailure(op string, tier core.Tier, err error) error {
	if errors.Is(err, core.ErrNotFound) || errors.Is(err, core.ErrDuplicateWallet) || errors.Is(err, core.ErrUnknownTier) {
		return err
	}

	s.logger().Error("allowlist store failure",
		zap.String("op", op),
		zap.String("tier", tier.String()),
		zap.Error(err))
	if errors.Is(err, core.ErrStoreUnavailable) {
		return err
	}
	return core.StoreError(op, err)
}

type unavailableRepo struct{}

func (unavailableRepo) ListWallets(context.Context, core.Tier) ([]core.WalletEntry, error) {
	return nil, core.ErrStoreUnavailable
}

func (unavailableRepo) InsertWallets(context.Context, core.Tier, []core.WalletEntry) error {
	return core.ErrStoreUnavailable
}

func (unavailableRepo) DeleteWallet(context.Context, core.Tier, string) error {
	return core.ErrStoreUnavailable
}

func (unavailableRepo) UpdateAllowance(context.Context, core.Tier, string, int) error {
	return core.ErrStoreUnavailable
}
