package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"tagalog-rizz-api/internal/application/favorite"
	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/interfaces/http/dto"
	"tagalog-rizz-api/internal/interfaces/http/middleware"
	"tagalog-rizz-api/pkg/logger"
)

// FavoriteService 收藏用例
type FavoriteService interface {
	List(ctx context.Context, userID string) ([]*entity.Favorite, error)
	Create(ctx context.Context, userID, content, translation string) (*entity.Favorite, error)
	Delete(ctx context.Context, userID, id string) error
}

// FavoriteHandler 收藏处理器，所有路由都在 RequireUser 之后
type FavoriteHandler struct {
	svc FavoriteService
}

// NewFavoriteHandler 创建收藏处理器
func NewFavoriteHandler(svc FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// List 获取当前用户的收藏，按创建时间倒序
// @Summary 收藏列表
// @Tags Favorites
// @Produce json
// @Success 200 {array} dto.FavoriteResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.svc.List(ctx, middleware.GetUserIDFromGin(c))
	if err != nil {
		logger.Error(ctx, "failed to list favorites", err)
		dto.InternalError(c, "Failed to fetch favorites")
		return
	}

	dto.OK(c, dto.ToFavoriteList(list))
}

// Create 收藏一条撩妹语
// @Summary 新增收藏
// @Tags Favorites
// @Accept json
// @Produce json
// @Param body body dto.FavoriteRequest true "收藏内容"
// @Success 200 {object} dto.FavoriteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/favorites [post]
func (h *FavoriteHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		dto.BadRequest(c, "Content is required")
		return
	}

	f, err := h.svc.Create(ctx, middleware.GetUserIDFromGin(c), req.Content, req.Translation)
	if err != nil {
		if errors.Is(err, favorite.ErrContentRequired) {
			dto.BadRequest(c, "Content is required")
			return
		}
		logger.Error(ctx, "failed to save favorite", err)
		dto.InternalError(c, "Failed to save favorite")
		return
	}

	dto.OK(c, dto.ToFavoriteResponse(f))
}

// Delete 删除收藏，只作用于当前用户
// @Summary 删除收藏
// @Tags Favorites
// @Produce json
// @Param id query string true "收藏 ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/favorites [delete]
func (h *FavoriteHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		dto.BadRequest(c, "Favorite ID is required")
		return
	}

	if err := h.svc.Delete(ctx, middleware.GetUserIDFromGin(c), id); err != nil {
		logger.Error(ctx, "failed to delete favorite", err, "favorite_id", id)
		dto.InternalError(c, "Failed to delete favorite")
		return
	}

	dto.Success(c)
}
