package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/harulabs/mintgate/internal/errors"
)

func TestHealthHandlerReturnsHealthyStatus(t *testing.T) {
	manager := NewHealthManager("1.2.3")
	manager.RegisterChecker("store", CheckerFunc(func(context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	manager.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, StatusHealthy, resp.Checks["store"])
}

func TestHealthHandlerReturnsServiceUnavailableWhenUnhealthy(t *testing.T) {
	manager := NewHealthManager("1.2.3")
	manager.RegisterChecker("store", CheckerFunc(func(context.Context) error { return errors.New("down") }))

	rec := httptest.NewRecorder()
	manager.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, apperrors.CodeServiceUnavailable, resp.Error.Code)

	checks, ok := resp.Error.Details["checks"].(map[string]any)
	require.True(t, ok, "expected checks in error details")
	assert.Equal(t, StatusUnhealthy, checks["store"])
}

func TestReadinessProbeFailsWithUnhealthyStore(t *testing.T) {
	manager := NewHealthManager("dev")
	manager.RegisterChecker("store", CheckerFunc(func(context.Context) error { return errors.New("down") }))

	rec := httptest.NewRecorder()
	manager.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ready", resp.Error.Details["probe"])
}

func TestLivenessIgnoresCheckers(t *testing.T) {
	manager := NewHealthManager("dev")
	manager.RegisterChecker("store", CheckerFunc(func(context.Context) error { return errors.New("down") }))

	rec := httptest.NewRecorder()
	manager.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCanceledContextReportsTimeout(t *testing.T) {
	manager := NewHealthManager("dev")
	manager.RegisterChecker("store", CheckerFunc(func(context.Context) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, checks := manager.Run(ctx)
	assert.Equal(t, StatusDegraded, status)
	assert.Equal(t, StatusTimeout, checks["store"])
}

func TestDetermineOverallStatus(t *testing.T) {
	assert.Equal(t, StatusHealthy, determineOverallStatus(nil))
	assert.Equal(t, StatusDegraded, determineOverallStatus(map[string]string{"a": StatusTimeout}))
	assert.Equal(t, StatusUnhealthy, determineOverallStatus(map[string]string{"a": StatusTimeout, "b": StatusUnhealthy}))
}
