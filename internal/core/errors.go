package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAddressRequired     = errors.New("wallet address is required")
	ErrInvalidAddress      = errors.New("invalid wallet address format")
	ErrRateLimited         = errors.New("too many requests, please try again later")
	ErrStoreUnavailable    = errors.New("allowlist store unavailable")
	ErrNotFound            = errors.New("wallet not found")
	ErrDuplicateWallet     = errors.New("wallet already on allowlist")
	ErrValidationFailed    = errors.New("address validation failed")
	ErrNoAddresses         = errors.New("no addresses provided")
	ErrAllowanceOutOfRange = fmt.Errorf("mints allowed must be between %d and %d", MinAllowance, MaxAllowance)
	ErrUnknownTier         = errors.New("unknown allowlist tier")
)

// ValidationError rejects a batch that contains malformed addresses.
type ValidationError struct {
	Invalid []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Invalid) == 0 {
		return ErrValidationFailed.Error()
	}
	return fmt.Sprintf("%s: %d invalid address(es): %s",
		ErrValidationFailed.Error(), len(e.Invalid), strings.Join(e.Invalid, ", "))
}

// Is makes errors.Is(err, ErrValidationFailed) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// StoreError marks a failure of the persistent store.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
