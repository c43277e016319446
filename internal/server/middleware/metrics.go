package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/metrics"
	"github.com/harulabs/mintgate/internal/observability"
)

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// EndpointPattern returns the chi route pattern for r so metric labels stay
// low-cardinality (wallet addresses never become label values).
func EndpointPattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	path := r.URL.Path
	switch {
	case path == "/health", strings.HasPrefix(path, "/health/"):
		return "/health/*"
	case path == "/version", path == "/metrics", path == "/":
		return path
	case strings.HasPrefix(path, "/v1/admin/"):
		return "/v1/admin/*"
	default:
		return "/unknown"
	}
}

// RequestMetrics records request count, latency and response size, and logs
// each completed request.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		endpoint := EndpointPattern(r)

		metrics.RecordHTTPRequest(r.Method, endpoint, wrapped.statusCode, duration, wrapped.bytesWritten)

		observability.ServerLogger.Info("HTTP request completed",
			zap.String("method", r.Method),
			zap.String("endpoint", endpoint),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", duration),
			zap.Int64("response_size", wrapped.bytesWritten),
			zap.String("requestID", GetRequestID(r.Context())),
		)
	})
}
