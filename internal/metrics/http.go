package metrics

import (
	"path"
	"strings"
	"time"
)

// RecordHTTPRequest counts an API request under its route pattern
// (/api/projects/:projectId/advance), never the raw path
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, categorizeStatus(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// categorizeStatus folds a status code into its class. Blocked workflow
// envelopes (422) land in 4xx next to validation failures.
func categorizeStatus(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// ShouldSkipEndpoint excludes health checks and scrapes, plus swagger docs. The operational
// endpoints are mounted both at the root and under the configurable base
// path, so they are matched by their last segment.
func ShouldSkipEndpoint(p string) bool {
	if strings.HasPrefix(p, "/swagger/") {
		return true
	}
	switch path.Base(p) {
	case "metrics", "health", "ready":
		return true
	}
	return false
}
