//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"tagalog-rizz-api/internal/application/favorite"
	"tagalog-rizz-api/internal/application/pickup"
	"tagalog-rizz-api/internal/config"
	"tagalog-rizz-api/internal/domain/repository"
	"tagalog-rizz-api/internal/infrastructure/identity"
	"tagalog-rizz-api/internal/infrastructure/llm"
	"tagalog-rizz-api/internal/infrastructure/persistence/postgres"
	"tagalog-rizz-api/internal/interfaces/http/handler"
	"tagalog-rizz-api/internal/interfaces/http/middleware"
	"tagalog-rizz-api/internal/interfaces/http/router"
	"tagalog-rizz-api/pkg/utils"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		PickupSet,
		FavoriteSet,
		AuthSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewFavoriteRepository,
	postgres.NewLLMUsageEventRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.FavoriteRepository), new(*postgres.FavoriteRepository)),
	wire.Bind(new(repository.LLMUsageEventRepository), new(*postgres.LLMUsageEventRepository)),
)

// RedisSet Redis 提供者集合（可选依赖）
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideFavoriteCache,
	ProvideRateLimiter,
	ProvideAuditPublisher,
)

// PickupSet 生成链路提供者集合
var PickupSet = wire.NewSet(
	ProvideLLMClient,
	wire.Bind(new(pickup.Completer), new(*llm.Client)),
	pickup.NewComposer,
	pickup.NewRequester,
	ProvideUsageRecorder,
	pickup.NewService,
)

// FavoriteSet 收藏提供者集合
var FavoriteSet = wire.NewSet(
	ProvideFavoriteService,
)

// AuthSet 身份与会话提供者集合
var AuthSet = wire.NewSet(
	ProvideIdentityProvider,
	ProvideJWTManager,
	ProvideAuthConfig,
	wire.Bind(new(handler.IdentityProvider), new(*identity.Provider)),
	wire.Bind(new(handler.SessionIssuer), new(*utils.JWTManager)),
	wire.Bind(new(middleware.SessionParser), new(*utils.JWTManager)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	wire.Bind(new(handler.PickupService), new(*pickup.Service)),
	wire.Bind(new(handler.FavoriteService), new(*favorite.Service)),
	handler.NewHealthHandler,
	handler.NewPickupHandler,
	handler.NewFavoriteHandler,
	handler.NewAuthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
