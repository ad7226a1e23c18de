package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/domain/repository"
	"tagalog-rizz-api/internal/infrastructure/identity"
	"tagalog-rizz-api/internal/interfaces/http/dto"
	"tagalog-rizz-api/internal/interfaces/http/middleware"
	"tagalog-rizz-api/pkg/logger"
)

const (
	stateCookie    = "rizz_oauth_state"
	verifierCookie = "rizz_oauth_verifier"
	// 授权流程的临时 Cookie 有效期
	oauthCookieMaxAge = 10 * 60

	loginPath = "/login"
)

// IdentityProvider OAuth2 身份提供方
type IdentityProvider interface {
	Configured() bool
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*entity.User, error)
}

// SessionIssuer 会话 Token 签发
type SessionIssuer interface {
	GenerateSessionToken(userID, email string, ttl time.Duration) (string, error)
}

// AuthConfig 会话 Cookie 配置
type AuthConfig struct {
	CookieName string
	SessionTTL time.Duration
	Secure     bool
}

// AuthHandler 认证处理器
type AuthHandler struct {
	provider IdentityProvider
	sessions SessionIssuer
	users    repository.UserRepository
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg AuthConfig, provider IdentityProvider, sessions SessionIssuer, users repository.UserRepository) *AuthHandler {
	if cfg.CookieName == "" {
		cfg.CookieName = middleware.DefaultSessionCookie
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		provider: provider,
		sessions: sessions,
		users:    users,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Login 跳转到身份提供方
// @Summary 登录
// @Tags Auth
// @Success 302
// @Router /auth/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.provider.Configured() {
		logger.Warn(c.Request.Context(), "login requested but identity provider is not configured")
		redirectLoginError(c, "Authentication is not configured")
		return
	}

	state := uuid.NewString()
	verifier := identity.NewVerifier()

	h.setCookie(c, stateCookie, state, oauthCookieMaxAge)
	h.setCookie(c, verifierCookie, verifier, oauthCookieMaxAge)

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state, verifier))
}

// Callback 授权码回调：换取用户信息并写入会话 Cookie
// @Summary 登录回调
// @Tags Auth
// @Param code query string true "授权码"
// @Param state query string true "状态"
// @Success 302
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	if code == "" {
		logger.Warn(ctx, "auth callback without code")
		redirectLoginError(c, "No authentication code provided")
		return
	}

	state, _ := c.Cookie(stateCookie)
	verifier, _ := c.Cookie(verifierCookie)
	h.setCookie(c, stateCookie, "", -1)
	h.setCookie(c, verifierCookie, "", -1)

	if state == "" || state != c.Query("state") {
		logger.Warn(ctx, "auth callback state mismatch")
		redirectLoginError(c, "Invalid authentication state")
		return
	}

	user, err := h.provider.Exchange(ctx, code, verifier)
	if err != nil {
		logger.Error(ctx, "failed to exchange authorization code", err)
		redirectLoginError(c, "Authentication failed: "+err.Error())
		return
	}

	user.MarkLogin(h.now())
	if err := h.users.Upsert(ctx, user); err != nil {
		// 用户表只用于记录，写入失败不影响登录
		logger.Error(ctx, "failed to upsert user", err, "user_id", user.ID)
	}

	token, err := h.sessions.GenerateSessionToken(user.ID, user.Email, h.cfg.SessionTTL)
	if err != nil {
		logger.Error(ctx, "failed to issue session token", err, "user_id", user.ID)
		redirectLoginError(c, "An unexpected error occurred")
		return
	}

	h.setCookie(c, h.cfg.CookieName, token, int(h.cfg.SessionTTL.Seconds()))
	logger.Info(ctx, "user signed in", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/")
}

// Session 查询当前会话，始终返回 200
// @Summary 当前会话
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	userID := middleware.GetUserIDFromGin(c)
	if userID == "" {
		dto.OK(c, dto.SessionResponse{})
		return
	}
	dto.OK(c, dto.SessionResponse{User: &dto.SessionUser{
		ID:    userID,
		Email: middleware.GetEmailFromGin(c),
	}})
}

// Logout 清除会话 Cookie
// @Summary 登出
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, h.cfg.CookieName, "", -1)
	dto.Success(c)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cfg.Secure, true)
}

func redirectLoginError(c *gin.Context, message string) {
	q := url.Values{}
	q.Set("error", message)
	c.Redirect(http.StatusFound, loginPath+"?"+q.Encode())
}
