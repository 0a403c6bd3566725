package middleware

import (
	"strconv"
	"time"

	"housiee-backend/internal/shared/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency labelled by route template,
// so /api/bookings/:id is one series, not one per id.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
