package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/errors"

	apperrors "github.com/harulabs/mintgate/internal/errors"
	"github.com/harulabs/mintgate/internal/metrics"
)

// Check results.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
	StatusTimeout   = "timeout"
)

// HealthResponse represents the aggregate health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProbeResponse represents individual probe response
type ProbeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthChecker defines interface for health checkable components
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

// CheckHealth calls f.
func (f CheckerFunc) CheckHealth(ctx context.Context) error {
	return f(ctx)
}

// HealthManager runs registered checks for the health and probe endpoints.
type HealthManager struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	version  string
	now      func() time.Time
}

// NewHealthManager creates a new health manager
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checkers: make(map[string]HealthChecker),
		version:  version,
		now:      time.Now,
	}
}

// RegisterChecker registers a health checker
func (hm *HealthManager) RegisterChecker(name string, checker HealthChecker) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.checkers[name] = checker
}

// Run executes every registered check and returns the aggregate status with
// the per-check results.
func (hm *HealthManager) Run(ctx context.Context) (string, map[string]string) {
	checks := hm.runHealthChecks(ctx)
	return determineOverallStatus(checks), checks
}

func (hm *HealthManager) runHealthChecks(ctx context.Context) map[string]string {
	hm.mu.RLock()
	names := make([]string, 0, len(hm.checkers))
	for name := range hm.checkers {
		names = append(names, name)
	}
	checkers := make(map[string]HealthChecker, len(hm.checkers))
	for name, checker := range hm.checkers {
		checkers[name] = checker
	}
	hm.mu.RUnlock()
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			checks[name] = StatusTimeout
			continue
		}

		started := time.Now()
		err := checkers[name].CheckHealth(ctx)
		metrics.RecordHealthCheck(name, err == nil, time.Since(started))

		switch {
		case err == nil:
			checks[name] = StatusHealthy
		case ctx.Err() != nil:
			checks[name] = StatusTimeout
		default:
			checks[name] = StatusUnhealthy
		}
	}
	return checks
}

func determineOverallStatus(checks map[string]string) string {
	degraded := false
	for _, status := range checks {
		if status == StatusUnhealthy {
			return StatusUnhealthy
		}
		if status == StatusDegraded || status == StatusTimeout {
			degraded = true
		}
	}
	if degraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// HealthHandler handles aggregate health check requests
func (hm *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, checks := hm.Run(checkCtx)
	if status == StatusUnhealthy {
		respondWithError(w, r, unhealthyEnvelope("aggregate health check failed", "", status, checks))
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Version:   hm.version,
		Timestamp: hm.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// LivenessHandler reports whether the process is serving requests. It does
// not consult the checkers so a slow store never restarts the pod.
func (hm *HealthManager) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ProbeResponse{Status: StatusHealthy, Timestamp: hm.now().UTC()})
}

// ReadinessHandler handles readiness probe requests
func (hm *HealthManager) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	hm.probe(w, r, "ready", 5*time.Second)
}

// StartupHandler handles startup probe requests
func (hm *HealthManager) StartupHandler(w http.ResponseWriter, r *http.Request) {
	hm.probe(w, r, "startup", 3*time.Second)
}

func (hm *HealthManager) probe(w http.ResponseWriter, r *http.Request, probe string, timeout time.Duration) {
	checkCtx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status, checks := hm.Run(checkCtx)
	if status == StatusUnhealthy {
		respondWithError(w, r, unhealthyEnvelope(probe+" probe failed", probe, status, checks))
		return
	}

	writeJSON(w, http.StatusOK, ProbeResponse{Status: status, Timestamp: hm.now().UTC()})
}

func unhealthyEnvelope(message, probe, status string, checks map[string]string) *errors.ErrorEnvelope {
	details := map[string]any{"status": status}
	if len(checks) > 0 {
		details["checks"] = checks
	}
	if probe != "" {
		details["probe"] = probe
	}

	var unhealthy []string
	for name, result := range checks {
		if result != StatusHealthy {
			unhealthy = append(unhealthy, name)
		}
	}
	sort.Strings(unhealthy)

	envelope := apperrors.NewServiceUnavailableError(message).WithDetails(details)
	return errors.SafeWithContext(envelope, map[string]any{"unhealthy_checks": unhealthy})
}
