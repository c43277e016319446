package middleware

import (
	"context"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation ID in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDContextKey string

const RequestIDContextKey requestIDContextKey = "request_id"

// maxRequestIDLength bounds caller supplied IDs before they reach logs.
const maxRequestIDLength = 128

// RequestID reuses an inbound X-Request-ID (or chi's request ID) and
// otherwise generates a UUID. The ID is echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimw.GetReqID(r.Context())
		if requestID == "" {
			requestID = strings.TrimSpace(r.Header.Get(RequestIDHeader))
		}
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves request ID from context
// Checks both our context key and chi's context key
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return requestID
	}
	return chimw.GetReqID(ctx)
}
