package server

import (
	"net/http"

	apperrors "github.com/harulabs/mintgate/internal/errors"
	"github.com/harulabs/mintgate/internal/observability"
)

// MetricsHandler serves the Prometheus registry on the main HTTP server.
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	handler := observability.MetricsHandler()
	if handler == nil {
		HandleError(w, r, apperrors.NewServiceUnavailableError("Metrics registry not initialized"))
		return
	}
	handler.ServeHTTP(w, r)
}
