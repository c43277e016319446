package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/fulmenhq/gofulmen/errors"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/metrics"
	"github.com/harulabs/mintgate/internal/observability"
)

// Recovery middleware recovers from panics and logs them
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				panicErr := errors.NewErrorEnvelope("INTERNAL_ERROR", "internal server error").
					WithCorrelationID(GetRequestID(r.Context()))
				panicErr = errors.SafeWithContext(panicErr, map[string]any{
					"panic":       fmt.Sprint(rec),
					"stack_trace": string(debug.Stack()),
				})
				panicErr = errors.SafeWithSeverity(panicErr, errors.SeverityCritical)

				observability.ServerLogger.Error("Recovered from handler panic",
					zap.String("severity", string(panicErr.Severity)),
					zap.Any("panic", panicErr.Context["panic"]),
					zap.Any("stack_trace", panicErr.Context["stack_trace"]),
					zap.String("request_id", panicErr.CorrelationID))
				metrics.RecordPanic()

				writeErrorResponse(w, panicErr, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// ErrorResponse structure per API standards
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// writeErrorResponse writes error response directly (avoid circular import).
// The panic context stays in the log.
func writeErrorResponse(w http.ResponseWriter, envelope *errors.ErrorEnvelope, statusCode int) {
	response := ErrorResponse{
		Error: ErrorDetail{
			Code:      envelope.Code,
			Message:   envelope.Message,
			Details:   envelope.Details,
			RequestID: envelope.CorrelationID,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}
