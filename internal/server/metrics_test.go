package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/harulabs/mintgate/internal/errors"
	"github.com/harulabs/mintgate/internal/observability"
)

func TestMetricsHandlerServesRegistry(t *testing.T) {
	require.NoError(t, observability.InitMetrics("mintgate"))
	t.Cleanup(observability.ResetMetrics)

	f := newFixture(t)
	f.do(t, http.MethodGet, "/v1/mint-config", "", "")

	rec := f.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), `mintgate_http_requests_total{endpoint="/v1/mint-config",method="GET",status="200"} 1`)
}

func TestMetricsHandlerReturnsServiceUnavailableWithoutRegistry(t *testing.T) {
	observability.ResetMetrics()

	rec := httptest.NewRecorder()
	MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperrors.CodeServiceUnavailable, decodeError(t, rec).Code)
}

func TestMetricsRouteIsOptional(t *testing.T) {
	srv := New(Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
