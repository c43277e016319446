package observability

import (
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsMu        sync.RWMutex
	metricsRegistry  *prometheus.Registry
	metricsNamespace string
)

// InitMetrics creates the Prometheus registry used by the server. Process and
// Go runtime collectors are registered immediately; application collectors
// are attached on first use (see internal/metrics).
func InitMetrics(serviceName string, namespace ...string) error {
	ns := serviceName
	if len(namespace) > 0 && namespace[0] != "" {
		ns = namespace[0]
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: sanitizeNamespace(ns)})); err != nil {
		return err
	}

	metricsMu.Lock()
	metricsRegistry = reg
	metricsNamespace = sanitizeNamespace(ns)
	metricsMu.Unlock()
	return nil
}

// MetricsRegistry returns the active registry, or nil when metrics are disabled.
func MetricsRegistry() *prometheus.Registry {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return metricsRegistry
}

// MetricsNamespace returns the namespace prefix for application metrics.
func MetricsNamespace() string {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return metricsNamespace
}

// MetricsHandler serves the Prometheus exposition format for the active
// registry. It returns nil when metrics have not been initialized.
func MetricsHandler() http.Handler {
	reg := MetricsRegistry()
	if reg == nil {
		return nil
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ResetMetrics drops the active registry.
func ResetMetrics() {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	metricsRegistry = nil
	metricsNamespace = ""
}

func sanitizeNamespace(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, value)
}
