package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"contract-workflow-api/internal/metrics"
)

// Metrics returns a middleware that records request count and latency per route
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// Label by route pattern so IDs don't explode cardinality
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
