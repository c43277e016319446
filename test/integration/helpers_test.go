package integration

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/core/allowlist"
	"github.com/harulabs/mintgate/internal/core/engine"
	"github.com/harulabs/mintgate/internal/core/store"
	"github.com/harulabs/mintgate/internal/mintconfig"
	"github.com/harulabs/mintgate/internal/observability"
	"github.com/harulabs/mintgate/internal/server"
	"github.com/harulabs/mintgate/internal/server/handlers"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "mint-gate-admin-pw"
	jwtSecret     = "integration-secret-0123456789abcdef"
)

// isPermissionError normalizes OS-specific permission errors (macOS/Linux/BSD)
// so we can gracefully skip when loopback sockets are blocked.
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EACCES) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{"permission denied", "operation not permitted", "not permitted"} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

type harness struct {
	url    string
	client *http.Client
	mem    *store.Memory
}

// startServer wires the full service over the memory store and binds it to
// IPv4 loopback, skipping when the sandbox refuses sockets.
func startServer(t *testing.T, maxRequests int) *harness {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, observability.InitMetrics("mintgate"))
	t.Cleanup(observability.ResetMetrics)

	mem := store.NewMemory()
	issuer, err := auth.NewTokenIssuer(jwtSecret, time.Hour)
	require.NoError(t, err)
	authSvc := auth.NewService(mem, issuer)
	_, err = authSvc.CreateUser(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	recorder := audit.NewRecorder(mem, nil)
	limiter := engine.NewFixedWindowLimiter(maxRequests, time.Minute)

	health := handlers.NewHealthManager("integration")
	health.RegisterChecker("store", handlers.CheckerFunc(mem.Ping))

	srv := server.New(server.Options{
		API: &handlers.API{
			Eligibility: &engine.EligibilityChecker{Wallets: mem, Limiter: limiter},
			Limiter:     limiter,
			Allowlist:   allowlist.NewService(mem, recorder, nil),
			Auth:        authSvc,
			Audit:       recorder,
			Mint:        mintconfig.Default(),
		},
		Health:  health,
		Metrics: true,
	})

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if isPermissionError(err) {
			t.Skipf("skipping server setup: %v", err)
		}
		require.NoError(t, err)
	}

	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: srv.Handler()},
	}
	ts.Start()
	t.Cleanup(ts.Close)

	return &harness{url: ts.URL, client: ts.Client(), mem: mem}
}
