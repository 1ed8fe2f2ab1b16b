package middleware

import (
	"strconv"
	"time"

	"seatwise/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request latency per route. The route template
// (not the raw path) is used so ids do not explode label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
