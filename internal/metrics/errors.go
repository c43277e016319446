package metrics

import "strconv"

// RecordError records an error with code and status
func RecordError(errorCode string, httpStatus int) {
	if set := current(); set != nil {
		set.errors.WithLabelValues(errorCode, strconv.Itoa(httpStatus)).Inc()
	}
}

// RecordPanic records a panic recovery
func RecordPanic() {
	if set := current(); set != nil {
		set.panics.Inc()
	}
}

// RecordErrorByEndpoint records an error by endpoint
func RecordErrorByEndpoint(endpoint string, errorCode string) {
	if set := current(); set != nil {
		set.errorsByEndpoint.WithLabelValues(endpoint, errorCode).Inc()
	}
}
