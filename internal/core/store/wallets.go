package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harulabs/mintgate/internal/core"
)

// ListWallets returns every wallet in tier, newest first.
func (s *Store) ListWallets(ctx context.Context, tier core.Tier) ([]core.WalletEntry, error) {
	if s == nil || s.DB == nil {
		return nil, errNotInitialized
	}
	table, err := walletTable(tier)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT wallet_address, mints_allowed, mints_used, created_at
		FROM %s
		ORDER BY created_at DESC, wallet_address ASC
	`, table))
	if err != nil {
		return nil, core.StoreError("list wallets", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	wallets := []core.WalletEntry{}
	for rows.Next() {
		entry := core.WalletEntry{Tier: tier}
		if err := rows.Scan(&entry.Address, &entry.MintsAllowed, &entry.MintsUsed, &entry.CreatedAt); err != nil {
			return nil, core.StoreError("scan wallet", err)
		}
		wallets = append(wallets, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, core.StoreError("list wallets", err)
	}
	return wallets, nil
}

// GetWallet looks up address exactly as given.
func (s *Store) GetWallet(ctx context.Context, tier core.Tier, address string) (*core.WalletEntry, error) {
	if s == nil || s.DB == nil {
		return nil, errNotInitialized
	}
	table, err := walletTable(tier)
	if err != nil {
		return nil, err
	}

	entry := core.WalletEntry{Tier: tier}
	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT wallet_address, mints_allowed, mints_used, created_at
		FROM %s
		WHERE wallet_address = $1
	`, table), address)
	if err := row.Scan(&entry.Address, &entry.MintsAllowed, &entry.MintsUsed, &entry.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, core.StoreError("get wallet", err)
	}
	return &entry, nil
}

// InsertWallets adds entries in a single transaction. A unique violation
// rolls back the whole batch and reports core.ErrDuplicateWallet.
func (s *Store) InsertWallets(ctx context.Context, tier core.Tier, entries []core.WalletEntry) (err error) {
	if s == nil || s.DB == nil {
		return errNotInitialized
	}
	table, err := walletTable(tier)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return core.StoreError("begin insert", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := fmt.Sprintf(`
		INSERT INTO %s (wallet_address, mints_allowed, mints_used, created_at)
		VALUES ($1, $2, $3, $4)
	`, table)
	for _, entry := range entries {
		if _, err = tx.ExecContext(ctx, query, entry.Address, entry.MintsAllowed, entry.MintsUsed, entry.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s: %w", entry.Address, core.ErrDuplicateWallet)
			}
			return core.StoreError("insert wallet", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return core.StoreError("commit insert", err)
	}
	return nil
}

// DeleteWallet removes address from tier.
func (s *Store) DeleteWallet(ctx context.Context, tier core.Tier, address string) error {
	if s == nil || s.DB == nil {
		return errNotInitialized
	}
	table, err := walletTable(tier)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE wallet_address = $1`, table), address)
	if err != nil {
		return core.StoreError("delete wallet", err)
	}
	return requireAffected(res, "delete wallet")
}

// UpdateAllowance sets mints_allowed for address.
func (s *Store) UpdateAllowance(ctx context.Context, tier core.Tier, address string, allowed int) error {
	if s == nil || s.DB == nil {
		return errNotInitialized
	}
	table, err := walletTable(tier)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET mints_allowed = $1 WHERE wallet_address = $2`, table),
		allowed, address)
	if err != nil {
		return core.StoreError("update allowance", err)
	}
	return requireAffected(res, "update allowance")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return core.StoreError(op, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
