package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/observability"
)

// Metrics records request counts and latency per route template. Routes in streaming
// (the SSE endpoint) are left out: a stream's lifetime is not a request latency.
func Metrics(m *observability.Metrics, streaming ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]bool, len(streaming))
	for _, r := range streaming {
		skip[r] = true
	}
	return func(c *gin.Context) {
		if skip[c.FullPath()] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
