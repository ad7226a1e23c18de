// Package router 提供 HTTP 路由配置
package router

import (
	"tagalog-rizz-api/internal/application/pickup"
	"tagalog-rizz-api/internal/config"
	"tagalog-rizz-api/internal/interfaces/http/handler"
	"tagalog-rizz-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Health   *handler.HealthHandler
	Pickup   *handler.PickupHandler
	Favorite *handler.FavoriteHandler
	Auth     *handler.AuthHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *Handlers
	sessions middleware.SessionParser
	limiter  middleware.RateLimiter
}

// New 创建新的路由器，limiter 为 nil 时不限流
func New(cfg *config.Config, handlers *Handlers, sessions middleware.SessionParser, limiter middleware.RateLimiter) *Router {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		sessions: sessions,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	quiet := r.quietPaths()
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, quiet))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(quiet))
	}

	r.engine.Use(middleware.Session(r.sessions, r.cfg.Security.Session.CookieName))
	r.engine.Use(middleware.AccessLog(middleware.AccessLogConfig{
		SkipPaths: quiet,
	}))
}

// quietPaths 健康检查与指标路径，观测类中间件跳过它们
func (r *Router) quietPaths() []string {
	paths := append([]string(nil), middleware.DefaultAccessLogSkipPaths...)
	if p := r.metricsPath(); p != "/metrics" {
		paths = append(paths, p)
	}
	return paths
}

func (r *Router) metricsPath() string {
	if p := r.cfg.Observability.Metrics.Path; p != "" {
		return p
	}
	return "/metrics"
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.metricsPath(), gin.WrapH(promhttp.Handler()))
	}

	RegisterAPIRoutes(r.engine,
		r.handlers.Pickup,
		r.handlers.Favorite,
		r.handlers.Auth,
		r.rateLimit(pickup.EndpointGenerate),
		r.rateLimit(pickup.EndpointChat),
	)
}

func (r *Router) rateLimit(endpoint string) gin.HandlerFunc {
	rl := r.cfg.Security.RateLimit
	return middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:  rl.Enabled,
		Endpoint: endpoint,
		Limit:    rl.Limit,
		Window:   rl.Window,
	}, r.limiter)
}
