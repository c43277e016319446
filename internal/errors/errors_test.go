package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gferrors "github.com/fulmenhq/gofulmen/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/server/middleware"
)

func TestFromDomainMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"address required", core.ErrAddressRequired, CodeInvalidInput, http.StatusBadRequest},
		{"invalid address", core.ErrInvalidAddress, CodeInvalidAddress, http.StatusBadRequest},
		{"validation", &core.ValidationError{Invalid: []string{"x"}}, CodeValidationFailed, http.StatusBadRequest},
		{"allowance", core.ErrAllowanceOutOfRange, CodeValidationFailed, http.StatusBadRequest},
		{"rate limited", core.ErrRateLimited, CodeRateLimited, http.StatusTooManyRequests},
		{"sign-in throttled", auth.ErrTooManyAttempts, CodeRateLimited, http.StatusTooManyRequests},
		{"not found", fmt.Errorf("remove: %w", core.ErrNotFound), CodeNotFound, http.StatusNotFound},
		{"duplicate", core.ErrDuplicateWallet, CodeConflict, http.StatusConflict},
		{"store", core.StoreError("list", stderrors.New("dial tcp")), CodeStoreUnavailable, http.StatusServiceUnavailable},
		{"credentials", auth.ErrInvalidCredentials, CodeInvalidCredentials, http.StatusUnauthorized},
		{"token", auth.ErrInvalidToken, CodeUnauthorized, http.StatusUnauthorized},
		{"auth backend", auth.ErrAuthUnavailable, CodeAuthUnavailable, http.StatusServiceUnavailable},
		{"unknown", stderrors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			envelope := FromDomain(tc.err)
			require.NotNil(t, envelope)
			assert.Equal(t, tc.code, envelope.Code)
			assert.Equal(t, tc.status, HTTPStatusFromEnvelope(envelope))
			assert.Equal(t, tc.err.Error(), envelope.Original)
		})
	}
}

func TestStoreErrorHidesCause(t *testing.T) {
	envelope := FromDomain(core.StoreError("list", stderrors.New("password authentication failed")))
	assert.NotContains(t, envelope.Message, "password")
	assert.Equal(t, gferrors.SeverityHigh, envelope.Severity)
	assert.Equal(t, gferrors.SeverityLevel[gferrors.SeverityHigh], envelope.SeverityLevel)
	assert.Contains(t, envelope.Context["wrapped_error"], "password authentication failed")
}

func TestWrapCarriesRequestIDAndCause(t *testing.T) {
	var envelope *gferrors.ErrorEnvelope
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope = WrapInvalidInput(r.Context(), stderrors.New("unexpected EOF"), "Request body is not valid JSON")
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/eligibility", nil)
	req.Header.Set("X-Request-ID", "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, envelope)
	assert.Equal(t, CodeInvalidInput, envelope.Code)
	assert.Equal(t, "req-123", envelope.CorrelationID)
	assert.Equal(t, "req-123", envelope.TraceID)
	assert.Equal(t, "unexpected EOF", envelope.Context["wrapped_error"])
	assert.Equal(t, "unexpected EOF", envelope.Original)
	assert.NotEmpty(t, envelope.Timestamp)
}

func TestWrapInternalIsHighSeverity(t *testing.T) {
	envelope := WrapInternal(context.Background(), stderrors.New("boom"), "server error")
	assert.Equal(t, gferrors.SeverityHigh, envelope.Severity)
	assert.NotEmpty(t, envelope.CorrelationID)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromEnvelope(envelope))
}

func TestRespondWithErrorWritesEnvelope(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
		RespondWithError(w, r, &core.ValidationError{Invalid: []string{"0xbad"}})
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/og/wallets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, CodeValidationFailed, resp.Error.Code)
	assert.Equal(t, seen, resp.Error.RequestID)
	assert.Equal(t, []any{"0xbad"}, resp.Error.Details["invalid"])
}

func TestEnsureCorrelationIDFallback(t *testing.T) {
	envelope := EnsureCorrelationID(gferrors.NewErrorEnvelope(CodeInternal, "x"), context.Background())
	assert.Contains(t, envelope.CorrelationID, "fallback-")
}

func TestEnsureEnvelopePassesThroughWrappedEnvelope(t *testing.T) {
	inner := NewInvalidInputError("dup")
	got := EnsureEnvelope(fmt.Errorf("outer: %w", inner))
	assert.Same(t, inner, got)
}
