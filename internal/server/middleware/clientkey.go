package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientKey identifies the caller for rate limiting by the host part of
// RemoteAddr. Forwarding headers are only honored when chi's RealIP ran
// first, which the server installs when server.trust_proxy_headers is set.
func ClientKey(r *http.Request) string {
	if r == nil {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
