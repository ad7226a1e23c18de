// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"tagalog-rizz-api/internal/application/favorite"
	"tagalog-rizz-api/internal/application/pickup"
	"tagalog-rizz-api/internal/application/usage"
	"tagalog-rizz-api/internal/config"
	"tagalog-rizz-api/internal/domain/repository"
	"tagalog-rizz-api/internal/infrastructure/identity"
	"tagalog-rizz-api/internal/infrastructure/llm"
	"tagalog-rizz-api/internal/infrastructure/messaging"
	"tagalog-rizz-api/internal/infrastructure/persistence/postgres"
	"tagalog-rizz-api/internal/infrastructure/persistence/redis"
	"tagalog-rizz-api/internal/interfaces/http/handler"
	"tagalog-rizz-api/internal/interfaces/http/middleware"
	"tagalog-rizz-api/pkg/logger"
	"tagalog-rizz-api/pkg/utils"
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional 提供 Redis 客户端；未启用或不可达时返回 nil，不阻塞启动
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Warn(ctx, "redis disabled, running without cache, rate limiting and audit stream")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, running without cache, rate limiting and audit stream", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// 以下 Optional 提供者在 Redis 缺失时必须返回 nil 接口值，而不是带类型的 nil 指针

// ProvideFavoriteCache 提供收藏列表缓存
func ProvideFavoriteCache(client *redis.Client) favorite.Cache {
	if client == nil {
		return nil
	}
	return redis.NewCache(client)
}

// ProvideRateLimiter 提供限流器
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideAuditPublisher 提供收藏审计消息生产者
func ProvideAuditPublisher(client *redis.Client, cfg *config.Config) favorite.AuditPublisher {
	if client == nil || !cfg.Features.Favorites.Audit {
		return nil
	}
	return messaging.NewProducer(client.Redis(), cfg.Messaging.RedisStream)
}

// ProvideLLMClient 提供补全客户端
func ProvideLLMClient(cfg *config.Config) *llm.Client {
	client := llm.NewClient(&cfg.LLM)
	if err := client.ConfigErr(); err != nil {
		// 继续启动，健康检查可用；生成接口会返回配置错误
		logger.Warn(context.Background(), "completion service is misconfigured", "error", err.Error())
	}
	return client
}

// ProvideUsageRecorder 提供调用记录器，关闭时返回 nil
func ProvideUsageRecorder(cfg *config.Config, client *llm.Client, repo repository.LLMUsageEventRepository) pickup.UsageRecorder {
	if !cfg.Features.UsageLog.Enabled {
		return nil
	}
	return usage.NewRecorder(repo, client.Provider(), client.Model())
}

// ProvideFavoriteService 提供收藏服务
func ProvideFavoriteService(
	cfg *config.Config,
	repo repository.FavoriteRepository,
	tx repository.Transactor,
	cache favorite.Cache,
	audit favorite.AuditPublisher,
) *favorite.Service {
	return favorite.NewService(repo, tx, cache, audit, cfg.Features.Favorites.CacheTTL)
}

// ProvideIdentityProvider 提供 OAuth2 身份提供方
func ProvideIdentityProvider(cfg *config.Config) *identity.Provider {
	return identity.NewProvider(&cfg.Identity)
}

// ProvideJWTManager 提供会话 Token 管理器
func ProvideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Security.Session.Secret, cfg.Security.Session.Issuer)
}

// ProvideAuthConfig 提供会话 Cookie 配置
func ProvideAuthConfig(cfg *config.Config) handler.AuthConfig {
	return handler.AuthConfig{
		CookieName: cfg.Security.Session.CookieName,
		SessionTTL: cfg.Security.Session.Expiration,
		Secure:     cfg.Security.Session.Secure,
	}
}
