// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tagalog-rizz-api/pkg/logger"
)

const (
	// RequestIDHeader 请求 ID 头，请求与响应共用
	RequestIDHeader = "X-Request-ID"
	// ContextKeyRequestID gin.Context 中的请求 ID
	ContextKeyRequestID = "request_id"

	maxRequestIDLen = 64
)

// RequestID 为每个请求分配 ID，写入日志上下文与响应头
// 透传的 ID 只接受字母数字与 . _ - 且不超过 64 字符，否则重新生成
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, id)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), logger.RequestIDKey, id))
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// GetRequestIDFromGin 读取当前请求 ID
func GetRequestIDFromGin(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.':
		default:
			return false
		}
	}
	return true
}
