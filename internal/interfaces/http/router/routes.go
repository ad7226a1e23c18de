// Package router 提供 HTTP 路由配置
package router

import (
	"tagalog-rizz-api/internal/interfaces/http/handler"
	"tagalog-rizz-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册业务路由
func RegisterAPIRoutes(
	engine *gin.Engine,
	pickupHandler *handler.PickupHandler,
	favoriteHandler *handler.FavoriteHandler,
	authHandler *handler.AuthHandler,
	generateLimit gin.HandlerFunc,
	chatLimit gin.HandlerFunc,
) {
	// 登录流程（浏览器跳转）
	auth := engine.Group("/auth")
	{
		auth.GET("/login", authHandler.Login)
		auth.GET("/callback", authHandler.Callback)
		auth.POST("/logout", authHandler.Logout)
	}

	api := engine.Group("/api")
	{
		api.POST("/generate", generateLimit, pickupHandler.Generate)
		api.POST("/chat", chatLimit, pickupHandler.Chat)

		api.GET("/auth/session", authHandler.Session)

		// 收藏需要登录
		favorites := api.Group("/favorites", middleware.RequireUser())
		{
			favorites.GET("", favoriteHandler.List)
			favorites.POST("", favoriteHandler.Create)
			favorites.DELETE("", favoriteHandler.Delete)
		}
	}
}
