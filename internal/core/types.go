package core

import (
	"fmt"
	"strings"
	"time"
)

// Tier identifies one of the allowlist collections.
type Tier string

const (
	TierOG Tier = "og"
	TierWL Tier = "wl"
)

// Tiers lists the allowlist tiers in display order.
var Tiers = []Tier{TierOG, TierWL}

// ParseTier normalizes a tier name ("og", "OG", " wl ").
func ParseTier(value string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(value))) {
	case TierOG:
		return TierOG, nil
	case TierWL:
		return TierWL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, value)
	}
}

// DefaultAllowance is the mints_allowed value given to newly added wallets.
func (t Tier) DefaultAllowance() int {
	if t == TierOG {
		return 1
	}
	return 3
}

// Label returns the upper-case display name.
func (t Tier) Label() string {
	return strings.ToUpper(string(t))
}

func (t Tier) String() string {
	return string(t)
}

// Allowance bounds enforced by the administration surface.
const (
	MinAllowance = 1
	MaxAllowance = 100
)

// WalletEntry is a single allowlist row.
type WalletEntry struct {
	Address      string    `json:"wallet_address"`
	Tier         Tier      `json:"tier"`
	MintsAllowed int       `json:"mints_allowed"`
	MintsUsed    int       `json:"mints_used"`
	CreatedAt    time.Time `json:"created_at"`
}

// EligibilityStatus is the combined verdict for one address. Tier fields are
// only set when the matching membership flag is true.
type EligibilityStatus struct {
	Address        string `json:"address"`
	IsOG           bool   `json:"is_og"`
	IsWL           bool   `json:"is_wl"`
	OGMintsAllowed *int   `json:"og_mints_allowed,omitempty"`
	OGMintsUsed    *int   `json:"og_mints_used,omitempty"`
	WLMintsAllowed *int   `json:"wl_mints_allowed,omitempty"`
	WLMintsUsed    *int   `json:"wl_mints_used,omitempty"`
}

// Eligible reports whether the address is on at least one allowlist.
func (s *EligibilityStatus) Eligible() bool {
	return s != nil && (s.IsOG || s.IsWL)
}

// RateLimitRecord captures per-key fixed window state.
type RateLimitRecord struct {
	Count       int
	WindowStart time.Time
}
