package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/metrics"
	"github.com/harulabs/mintgate/internal/observability"
	"github.com/harulabs/mintgate/internal/server/middleware"
)

// Error codes returned in the HTTP envelope.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidAddress     = "INVALID_ADDRESS"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeAuthUnavailable    = "AUTH_UNAVAILABLE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeInternal           = "INTERNAL_ERROR"
)

// User Errors (400-level)
func NewInvalidInputError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeInvalidInput, message)
}

func NewNotFoundError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeNotFound, message)
}

func NewUnauthorizedError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeUnauthorized, message)
}

func NewMethodNotAllowedError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeMethodNotAllowed, message)
}

func NewValidationError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeValidationFailed, message)
}

// Server Errors (500-level)
func NewInternalError(message string) *errors.ErrorEnvelope {
	return errors.SafeWithSeverity(errors.NewErrorEnvelope(CodeInternal, message), errors.SeverityHigh)
}

func NewServiceUnavailableError(message string) *errors.ErrorEnvelope {
	return errors.SafeWithSeverity(errors.NewErrorEnvelope(CodeServiceUnavailable, message), errors.SeverityMedium)
}

func NewConfigInvalidError(message string) *errors.ErrorEnvelope {
	return errors.SafeWithSeverity(errors.NewErrorEnvelope(CodeConfigInvalid, message), errors.SeverityHigh)
}

// Wrap functions accept a context to pick up the request correlation ID.

func WrapInvalidInput(ctx context.Context, err error, message string) *errors.ErrorEnvelope {
	return wrap(ctx, CodeInvalidInput, err, message)
}

func WrapInternal(ctx context.Context, err error, message string) *errors.ErrorEnvelope {
	return errors.SafeWithSeverity(wrap(ctx, CodeInternal, err, message), errors.SeverityHigh)
}

func WrapConfigInvalid(ctx context.Context, err error, message string) *errors.ErrorEnvelope {
	return errors.SafeWithSeverity(wrap(ctx, CodeConfigInvalid, err, message), errors.SeverityHigh)
}

func wrap(ctx context.Context, code string, err error, message string) *errors.ErrorEnvelope {
	correlationID := extractCorrelationID(ctx)
	envelope := errors.NewErrorEnvelope(code, message).
		WithCorrelationID(correlationID).
		WithTraceID(correlationID)
	return withWrappedError(envelope, err)
}

// withWrappedError records err in the log-only context and as the original
// cause. Neither is returned to HTTP callers.
func withWrappedError(envelope *errors.ErrorEnvelope, err error) *errors.ErrorEnvelope {
	if envelope == nil || err == nil {
		return envelope
	}
	envelope = errors.SafeWithContext(envelope, map[string]any{"wrapped_error": err.Error()})
	return envelope.WithOriginal(err)
}

// extractCorrelationID gets correlation ID from context, falls back to generating new UUID
func extractCorrelationID(ctx context.Context) string {
	if ctx != nil {
		if requestID := middleware.GetRequestID(ctx); requestID != "" {
			return requestID
		}
	}
	return uuid.New().String()
}

// EnsureEnvelope normalizes any error into a gofulmen ErrorEnvelope. Domain
// errors are translated by FromDomain.
func EnsureEnvelope(err error) *errors.ErrorEnvelope {
	if err == nil {
		return errors.SafeWithSeverity(errors.NewErrorEnvelope(CodeInternal, "unexpected nil error"), errors.SeverityCritical)
	}

	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) && envelope != nil {
		return envelope
	}

	return FromDomain(err)
}

// EnsureCorrelationID attaches a correlation ID to the envelope using the context when available.
func EnsureCorrelationID(envelope *errors.ErrorEnvelope, ctx context.Context) *errors.ErrorEnvelope {
	if envelope == nil {
		return nil
	}
	if envelope.CorrelationID != "" {
		return envelope
	}

	var correlationID string
	if ctx != nil {
		correlationID = middleware.GetRequestID(ctx)
	}
	if correlationID == "" {
		correlationID = "fallback-" + errors.GenerateCorrelationID()
	}
	return envelope.WithCorrelationID(correlationID)
}

// HTTPStatusFromEnvelope resolves the HTTP status code corresponding to an error envelope.
func HTTPStatusFromEnvelope(envelope *errors.ErrorEnvelope) int {
	if envelope == nil {
		return http.StatusInternalServerError
	}
	return HTTPStatusFromCode(envelope.Code)
}

// HTTPStatusFromCode resolves the HTTP status code corresponding to an error code.
func HTTPStatusFromCode(code string) int {
	switch code {
	case CodeInvalidInput, CodeInvalidAddress, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeStoreUnavailable, CodeAuthUnavailable, CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorDetail captures the error body returned to callers.
type HTTPErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// HTTPErrorResponse wraps HTTPErrorDetail in the standard envelope structure.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// RespondWithError normalizes the supplied error and writes a JSON response.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	RespondWithEnvelope(w, r, EnsureEnvelope(err))
}

// RespondWithEnvelope finalizes the provided envelope, logging and emitting metrics.
func RespondWithEnvelope(w http.ResponseWriter, r *http.Request, envelope *errors.ErrorEnvelope) {
	if w == nil {
		return
	}

	if r != nil {
		envelope = EnsureCorrelationID(envelope, r.Context())
	} else {
		envelope = EnsureCorrelationID(envelope, nil)
	}

	statusCode := HTTPStatusFromEnvelope(envelope)

	response := HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:      envelope.Code,
			Message:   envelope.Message,
			Details:   envelope.Details,
			RequestID: envelope.CorrelationID,
		},
	}

	logHTTPError(envelope, statusCode)
	emitErrorMetrics(r, envelope, statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func logHTTPError(envelope *errors.ErrorEnvelope, statusCode int) {
	logger := observability.ServerLogger
	if logger == nil || envelope == nil {
		return
	}

	fields := []zap.Field{
		zap.String("error_code", envelope.Code),
		zap.Int("http_status", statusCode),
	}
	if envelope.Severity != "" {
		fields = append(fields, zap.String("severity", string(envelope.Severity)))
	}
	for key, value := range envelope.Context {
		fields = append(fields, zap.Any(key, value))
	}
	if original, ok := envelope.Original.(string); ok && original != "" {
		fields = append(fields, zap.String("original_error", original))
	}
	if envelope.CorrelationID != "" {
		fields = append(fields, zap.String("request_id", envelope.CorrelationID))
	}

	switch envelope.Severity {
	case errors.SeverityCritical, errors.SeverityHigh:
		logger.Error(envelope.Message, fields...)
	case errors.SeverityMedium:
		logger.Warn(envelope.Message, fields...)
	default:
		logger.Info(envelope.Message, fields...)
	}
}

func emitErrorMetrics(r *http.Request, envelope *errors.ErrorEnvelope, statusCode int) {
	if envelope == nil {
		return
	}

	metrics.RecordError(envelope.Code, statusCode)
	if r != nil {
		metrics.RecordErrorByEndpoint(middleware.EndpointPattern(r), envelope.Code)
	}
}
