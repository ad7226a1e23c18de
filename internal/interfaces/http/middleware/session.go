// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tagalog-rizz-api/internal/interfaces/http/dto"
	"tagalog-rizz-api/pkg/logger"
	"tagalog-rizz-api/pkg/utils"
)

const (
	// ContextKeyUserID gin.Context 中的用户 ID
	ContextKeyUserID = "user_id"
	// ContextKeyEmail gin.Context 中的用户邮箱
	ContextKeyEmail = "user_email"

	contextKeySessionState = "session_state"

	sessionMissing = "missing"
	sessionInvalid = "invalid"
	sessionValid   = "valid"

	// DefaultSessionCookie 会话 Cookie 默认名
	DefaultSessionCookie = "rizz_session"

	msgNoAuthCookie   = "Unauthorized - No auth cookie found"
	msgInvalidSession = "Unauthorized - Invalid session"
)

// SessionParser 会话 Token 解析接口
type SessionParser interface {
	ParseSessionToken(token string) (*utils.Claims, error)
}

// Session 解析会话（Cookie 优先，其次 Bearer 头），从不中断请求
func Session(parser SessionParser, cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}

	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			c.Set(contextKeySessionState, sessionMissing)
			c.Next()
			return
		}

		claims, err := parser.ParseSessionToken(token)
		if err != nil {
			c.Set(contextKeySessionState, sessionInvalid)
			c.Next()
			return
		}

		c.Set(contextKeySessionState, sessionValid)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)

		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireUser 要求已登录，需放在 Session 之后
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.GetString(contextKeySessionState) {
		case sessionValid:
			c.Next()
		case sessionInvalid:
			dto.AbortWithError(c, http.StatusUnauthorized, msgInvalidSession)
		default:
			dto.AbortWithError(c, http.StatusUnauthorized, msgNoAuthCookie)
		}
	}
}

// GetUserIDFromGin 从 gin.Context 获取用户 ID，未登录时为空
func GetUserIDFromGin(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetEmailFromGin 从 gin.Context 获取用户邮箱
func GetEmailFromGin(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

func extractToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
