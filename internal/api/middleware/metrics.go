package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/metrics"
)

// Metrics records the duration of every request by route pattern.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
