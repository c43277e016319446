package metrics

import (
	"strconv"
	"time"
)

// Eligibility check outcomes.
const (
	EligibilityEligible    = "eligible"
	EligibilityNotEligible = "not_eligible"
	EligibilityInvalid     = "invalid_address"
	EligibilityRateLimited = "rate_limited"
	EligibilityError       = "error"
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration, responseSize int64) {
	set := current()
	if set == nil {
		return
	}

	code := strconv.Itoa(status)
	set.httpRequests.WithLabelValues(method, endpoint, code).Inc()
	set.httpDuration.WithLabelValues(method, endpoint, code).Observe(duration.Seconds())
	set.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))

	if status >= 400 {
		errorType := "client_error"
		if status >= 500 {
			errorType = "server_error"
		}
		set.httpErrors.WithLabelValues(method, endpoint, code, errorType).Inc()
	}
}

// RecordEligibilityCheck counts an eligibility check outcome.
func RecordEligibilityCheck(result string) {
	if set := current(); set != nil {
		set.eligibilityChecks.WithLabelValues(result).Inc()
	}
}

// RecordRateLimitSweep records a sweeper pass.
func RecordRateLimitSweep(removed int, remaining int) {
	set := current()
	if set == nil {
		return
	}
	set.rateLimitSwept.Add(float64(removed))
	set.rateLimitKeys.Set(float64(remaining))
}

// RecordAdminOperation records an allowlist administration operation.
func RecordAdminOperation(operation string, tier string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	if set := current(); set != nil {
		set.adminOperations.WithLabelValues(operation, tier, status).Inc()
	}
}

// RecordSignIn records an admin sign-in attempt.
func RecordSignIn(result string) {
	if set := current(); set != nil {
		set.signIns.WithLabelValues(result).Inc()
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	if set := current(); set != nil {
		set.healthChecks.WithLabelValues(checkName, status).Inc()
		set.healthCheckDuration.WithLabelValues(checkName).Observe(duration.Seconds())
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if set := current(); set != nil {
		set.serverStartTime.Set(float64(timestamp))
	}
}
