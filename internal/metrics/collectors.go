package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harulabs/mintgate/internal/observability"
)

type collectorSet struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpResponseSize *prometheus.HistogramVec
	httpErrors       *prometheus.CounterVec

	errors           *prometheus.CounterVec
	panics           prometheus.Counter
	errorsByEndpoint *prometheus.CounterVec

	eligibilityChecks *prometheus.CounterVec
	rateLimitSwept    prometheus.Counter
	rateLimitKeys     prometheus.Gauge
	adminOperations   *prometheus.CounterVec
	signIns           *prometheus.CounterVec

	healthChecks        *prometheus.CounterVec
	healthCheckDuration *prometheus.HistogramVec
	serverStartTime     prometheus.Gauge
}

var (
	collectorsMu  sync.Mutex
	boundRegistry *prometheus.Registry
	bound         *collectorSet
)

// current returns the collectors registered on the active registry, creating
// them on first use. It returns nil when metrics are disabled.
func current() *collectorSet {
	reg := observability.MetricsRegistry()
	if reg == nil {
		return nil
	}

	collectorsMu.Lock()
	defer collectorsMu.Unlock()

	if boundRegistry == reg && bound != nil {
		return bound
	}

	set := newCollectorSet(observability.MetricsNamespace())
	reg.MustRegister(
		set.httpRequests, set.httpDuration, set.httpResponseSize, set.httpErrors,
		set.errors, set.panics, set.errorsByEndpoint,
		set.eligibilityChecks, set.rateLimitSwept, set.rateLimitKeys,
		set.adminOperations, set.signIns,
		set.healthChecks, set.healthCheckDuration, set.serverStartTime,
	)
	boundRegistry = reg
	bound = set
	return set
}

func newCollectorSet(ns string) *collectorSet {
	httpLabels := []string{"method", "endpoint", "status"}

	return &collectorSet{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, httpLabels),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, httpLabels),
		httpResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "http_response_size_bytes",
			Help:    "HTTP response sizes in bytes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"method", "endpoint"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "http_errors_total",
			Help: "HTTP responses with status >= 400.",
		}, []string{"method", "endpoint", "status", "error_type"}),

		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "errors_total",
			Help: "Error envelopes returned to callers.",
		}, []string{"error_code", "http_status"}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "panics_total",
			Help: "Recovered handler panics.",
		}),
		errorsByEndpoint: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "errors_by_endpoint_total",
			Help: "Error envelopes by route pattern.",
		}, []string{"endpoint", "error_code"}),

		eligibilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "eligibility_checks_total",
			Help: "Eligibility checks by outcome.",
		}, []string{"result"}),
		rateLimitSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "rate_limit_records_swept_total",
			Help: "Expired rate limit records removed by the sweeper.",
		}),
		rateLimitKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "rate_limit_tracked_keys",
			Help: "Client keys currently tracked by the rate limiter.",
		}),
		adminOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "admin_operations_total",
			Help: "Allowlist administration operations.",
		}, []string{"operation", "tier", "status"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "auth_sign_ins_total",
			Help: "Admin sign-in attempts by result.",
		}, []string{"result"}),

		healthChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "health_check_total",
			Help: "Health check executions.",
		}, []string{"check", "status"}),
		healthCheckDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "health_check_duration_seconds",
			Help:    "Health check latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"check"}),
		serverStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "server_start_time_seconds",
			Help: "Unix time the server started.",
		}),
	}
}
