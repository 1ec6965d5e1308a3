package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"mongo-user-service/internal/observability/metrics"
)

// Metrics returns a Gin middleware that records Prometheus metrics for each
// request. The route template is used as the path label to keep cardinality
// bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(method, path).Inc()
		metrics.HTTPRequestsInFlight.Inc()

		c.Next()

		metrics.HTTPRequestsInFlight.Dec()
		statusClass := fmt.Sprintf("%dxx", c.Writer.Status()/100)
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path, statusClass).
			Observe(time.Since(start).Seconds())
	}
}
