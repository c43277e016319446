package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/metrics"
)

// WalletLookup reads a single allowlist entry by exact address. Implementations
// return core.ErrNotFound when the address is not on the tier's list.
type WalletLookup interface {
	GetWallet(ctx context.Context, tier core.Tier, address string) (*core.WalletEntry, error)
}

// Limiter gates requests per caller key.
type Limiter interface {
	Allow(key string) bool
}

// EligibilityChecker composes the OG and WL lookups into a single verdict.
type EligibilityChecker struct {
	Wallets WalletLookup
	Limiter Limiter
	Logger  *zap.Logger
}

// Check validates address, applies the rate limit for clientKey and then
// queries both allowlists concurrently. Validation and rate limiting happen
// before any store access.
func (c *EligibilityChecker) Check(ctx context.Context, clientKey, address string) (*core.EligibilityStatus, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if address == "" {
		metrics.RecordEligibilityCheck(metrics.EligibilityInvalid)
		return nil, core.ErrAddressRequired
	}
	if !core.IsValidAddress(address) {
		metrics.RecordEligibilityCheck(metrics.EligibilityInvalid)
		return nil, core.ErrInvalidAddress
	}

	if c.Limiter != nil && !c.Limiter.Allow(clientKey) {
		metrics.RecordEligibilityCheck(metrics.EligibilityRateLimited)
		c.logger().Info("Eligibility check rate limited", zap.String("client", clientKey))
		return nil, core.ErrRateLimited
	}

	if c.Wallets == nil {
		metrics.RecordEligibilityCheck(metrics.EligibilityError)
		return nil, fmt.Errorf("%w: no wallet lookup configured", core.ErrStoreUnavailable)
	}

	var og, wl *core.WalletEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entry, err := c.lookup(gctx, core.TierOG, address)
		og = entry
		return err
	})
	g.Go(func() error {
		entry, err := c.lookup(gctx, core.TierWL, address)
		wl = entry
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordEligibilityCheck(metrics.EligibilityError)
		c.logger().Error("Eligibility lookup failed",
			zap.String("address", address),
			zap.Error(err))
		return nil, err
	}

	status := composeStatus(address, og, wl)
	if status.Eligible() {
		metrics.RecordEligibilityCheck(metrics.EligibilityEligible)
	} else {
		metrics.RecordEligibilityCheck(metrics.EligibilityNotEligible)
	}
	return status, nil
}

func (c *EligibilityChecker) lookup(ctx context.Context, tier core.Tier, address string) (*core.WalletEntry, error) {
	entry, err := c.Wallets.GetWallet(ctx, tier, address)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, core.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, core.StoreError("lookup "+tier.String()+" wallet", err)
	}
	return entry, nil
}

func (c *EligibilityChecker) logger() *zap.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func composeStatus(address string, og, wl *core.WalletEntry) *core.EligibilityStatus {
	status := &core.EligibilityStatus{Address: address}
	if og != nil {
		allowed, used := og.MintsAllowed, og.MintsUsed
		status.IsOG = true
		status.OGMintsAllowed = &allowed
		status.OGMintsUsed = &used
	}
	if wl != nil {
		allowed, used := wl.MintsAllowed, wl.MintsUsed
		status.IsWL = true
		status.WLMintsAllowed = &allowed
		status.WLMintsUsed = &used
	}
	return status
}
