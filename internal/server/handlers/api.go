package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/core/allowlist"
	"github.com/harulabs/mintgate/internal/core/engine"
	"github.com/harulabs/mintgate/internal/mintconfig"
)

// RetryAfterer reports how long a throttled client must wait.
type RetryAfterer interface {
	RetryAfter(key string) time.Duration
}

// API holds the dependencies of the /v1 handlers. Nil services answer with
// an unavailable envelope instead of panicking.
type API struct {
	Eligibility *engine.EligibilityChecker
	Limiter     RetryAfterer
	Allowlist   *allowlist.Service
	Auth        *auth.Service
	Audit       *audit.Recorder
	Mint        *mintconfig.Config
	Logger      *zap.Logger
}

func (a *API) logger() *zap.Logger {
	if a == nil || a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func tierParam(r *http.Request) (core.Tier, error) {
	return core.ParseTier(chi.URLParam(r, "tier"))
}

func addressParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "address"))
}

// setRetryAfter writes the Retry-After header in whole seconds, rounding up.
func setRetryAfter(w http.ResponseWriter, wait time.Duration) {
	if wait <= 0 {
		return
	}
	seconds := int(math.Ceil(wait.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
}
