// Package middleware 提供 HTTP 中间件
package middleware

import (
	"time"

	"tagalog-rizz-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AccessLogConfig 访问日志配置
type AccessLogConfig struct {
	// SkipPaths 不记录的路径
	SkipPaths []string
}

// DefaultAccessLogSkipPaths 默认跳过的探针路径
var DefaultAccessLogSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// AccessLog 访问日志中间件，每个请求结束后输出一条 Info 日志
func AccessLog(cfg AccessLogConfig) gin.HandlerFunc {
	skip := pathSet(cfg.SkipPaths)

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// user_id 由 Session 中间件写入 gin.Context
		logger.Info(c.Request.Context(), "api request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"user_id", GetUserIDFromGin(c),
			"body_size", c.Writer.Size(),
		)
	}
}
