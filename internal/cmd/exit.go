package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/errors"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/core"
	apperrors "github.com/harulabs/mintgate/internal/errors"
)

// ExitCode is a process exit status. Values follow sysexits(3).
type ExitCode int

const (
	ExitSuccess     ExitCode = 0
	ExitFailure     ExitCode = 1
	ExitUsage       ExitCode = 64
	ExitDataErr     ExitCode = 65
	ExitUnavailable ExitCode = 69
	ExitSoftware    ExitCode = 70
	ExitConfig      ExitCode = 78
)

var exitNames = map[ExitCode]string{
	ExitSuccess:     "EX_OK",
	ExitFailure:     "EX_FAILURE",
	ExitUsage:       "EX_USAGE",
	ExitDataErr:     "EX_DATAERR",
	ExitUnavailable: "EX_UNAVAILABLE",
	ExitSoftware:    "EX_SOFTWARE",
	ExitConfig:      "EX_CONFIG",
}

func (c ExitCode) String() string {
	if name, ok := exitNames[c]; ok {
		return name
	}
	return fmt.Sprintf("EXIT_%d", int(c))
}

// configError marks failures that stem from configuration.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// ExitCodeFor maps an error returned by a command onto an exit code.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}

	var cfgErr *configError
	var validation *core.ValidationError
	var envelope *errors.ErrorEnvelope
	switch {
	case stderrors.As(err, &cfgErr):
		return ExitConfig
	case stderrors.As(err, &validation),
		stderrors.Is(err, core.ErrInvalidAddress),
		stderrors.Is(err, core.ErrAddressRequired),
		stderrors.Is(err, core.ErrNoAddresses),
		stderrors.Is(err, core.ErrAllowanceOutOfRange),
		stderrors.Is(err, core.ErrDuplicateWallet),
		stderrors.Is(err, core.ErrNotFound),
		stderrors.Is(err, auth.ErrInvalidInput),
		stderrors.Is(err, auth.ErrUserExists):
		return ExitDataErr
	case stderrors.Is(err, core.ErrUnknownTier):
		return ExitUsage
	case stderrors.Is(err, core.ErrStoreUnavailable), stderrors.Is(err, auth.ErrAuthUnavailable):
		return ExitUnavailable
	case stderrors.As(err, &envelope) && envelope.Code == apperrors.CodeConfigInvalid:
		return ExitConfig
	case stderrors.As(err, &envelope) && envelope.Code == apperrors.CodeInternal:
		return ExitSoftware
	default:
		return ExitFailure
	}
}

// ExitWithCode logs err with exit code metadata and exits. logger may be nil
// for failures before logging is initialized.
func ExitWithCode(logger *zap.Logger, code ExitCode, msg string, err error) {
	if logger == nil {
		ExitWithCodeStderr(code, msg, err)
		return
	}

	fields := []zap.Field{
		zap.Int("exit_code", int(code)),
		zap.String("exit_name", code.String()),
	}
	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) {
		fields = append(fields,
			zap.String("error_code", envelope.Code),
			zap.String("error_message", envelope.Message))
		if envelope.CorrelationID != "" {
			fields = append(fields, zap.String("correlation_id", envelope.CorrelationID))
		}
		if envelope.Context != nil {
			fields = append(fields, zap.Any("error_context", envelope.Context))
		}
		if original, ok := envelope.Original.(string); ok && original != "" {
			fields = append(fields, zap.String("original_error", original))
		}
	}
	fields = append(fields, zap.Error(err))
	logger.Error(msg, fields...)
	_ = logger.Sync()

	os.Exit(int(code))
}

// ExitWithCodeStderr writes to stderr without a logger and exits.
func ExitWithCodeStderr(code ExitCode, msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	if code != ExitFailure {
		fmt.Fprintf(os.Stderr, "Exit Code: %d (%s)\n", int(code), code)
	}
	os.Exit(int(code))
}
