package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tagalog-rizz-api/pkg/metrics"
)

// unmatchedRoute 未命中任何路由时的 route 标签
const unmatchedRoute = "unmatched"

// Metrics 按路由模板记录请求数、耗时与收发字节
// skipPaths 一般包含 /metrics 自身
func Metrics(skipPaths []string) gin.HandlerFunc {
	skip := pathSet(skipPaths)
	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if n := c.Request.ContentLength; n > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, route).Observe(float64(n))
		}
		if n := c.Writer.Size(); n > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(n))
		}
	}
}
