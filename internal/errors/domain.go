package errors

import (
	stderrors "errors"

	"github.com/fulmenhq/gofulmen/errors"

	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/core"
)

// FromDomain maps domain and auth errors onto the HTTP error envelope.
// Store and auth backend failures keep the cause in the log context only;
// callers see a generic message.
func FromDomain(err error) *errors.ErrorEnvelope {
	if err == nil {
		return EnsureEnvelope(nil)
	}

	var validation *core.ValidationError
	switch {
	case stderrors.As(err, &validation):
		return errors.NewErrorEnvelope(CodeValidationFailed, "One or more addresses are invalid").
			WithDetails(map[string]any{"invalid": validation.Invalid}).
			WithOriginal(err)
	case stderrors.Is(err, core.ErrAddressRequired):
		return errors.NewErrorEnvelope(CodeInvalidInput, "Please enter a wallet address").WithOriginal(err)
	case stderrors.Is(err, core.ErrInvalidAddress):
		return errors.NewErrorEnvelope(CodeInvalidAddress, "Invalid wallet address format").WithOriginal(err)
	case stderrors.Is(err, core.ErrNoAddresses):
		return errors.NewErrorEnvelope(CodeInvalidInput, "Please enter at least one wallet address").WithOriginal(err)
	case stderrors.Is(err, core.ErrUnknownTier):
		return errors.NewErrorEnvelope(CodeInvalidInput, "Unknown allowlist tier").WithOriginal(err)
	case stderrors.Is(err, core.ErrAllowanceOutOfRange):
		return errors.NewErrorEnvelope(CodeValidationFailed, err.Error()).
			WithDetails(map[string]any{"min": core.MinAllowance, "max": core.MaxAllowance}).
			WithOriginal(err)
	case stderrors.Is(err, core.ErrRateLimited), stderrors.Is(err, auth.ErrTooManyAttempts):
		return errors.NewErrorEnvelope(CodeRateLimited, "Too many requests. Please try again later.").WithOriginal(err)
	case stderrors.Is(err, core.ErrNotFound):
		return errors.NewErrorEnvelope(CodeNotFound, "Wallet not found").WithOriginal(err)
	case stderrors.Is(err, core.ErrDuplicateWallet):
		return withWrappedError(errors.NewErrorEnvelope(CodeConflict, "Wallet already on allowlist"), err)
	case stderrors.Is(err, core.ErrStoreUnavailable):
		envelope := errors.NewErrorEnvelope(CodeStoreUnavailable, "The allowlist service is temporarily unavailable")
		return withWrappedError(errors.SafeWithSeverity(envelope, errors.SeverityHigh), err)
	case stderrors.Is(err, auth.ErrInvalidCredentials):
		return errors.NewErrorEnvelope(CodeInvalidCredentials, "Invalid email or password").WithOriginal(err)
	case stderrors.Is(err, auth.ErrUnauthenticated), stderrors.Is(err, auth.ErrInvalidToken):
		return errors.NewErrorEnvelope(CodeUnauthorized, "Authentication required").WithOriginal(err)
	case stderrors.Is(err, auth.ErrForbidden):
		return errors.NewErrorEnvelope(CodeForbidden, "Admin access required").WithOriginal(err)
	case stderrors.Is(err, auth.ErrAuthUnavailable):
		envelope := errors.NewErrorEnvelope(CodeAuthUnavailable, "Sign-in is temporarily unavailable")
		return withWrappedError(errors.SafeWithSeverity(envelope, errors.SeverityHigh), err)
	default:
		envelope := errors.NewErrorEnvelope(CodeInternal, "unexpected error")
		return withWrappedError(errors.SafeWithSeverity(envelope, errors.SeverityHigh), err)
	}
}
