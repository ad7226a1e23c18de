// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"tagalog-rizz-api/internal/application/pickup"
	"tagalog-rizz-api/internal/interfaces/http/dto"
	"tagalog-rizz-api/internal/interfaces/http/middleware"
	"tagalog-rizz-api/pkg/logger"
)

// PickupService 撩妹语生成用例
type PickupService interface {
	Generate(ctx context.Context, req pickup.GenerationRequest, userID string) (*pickup.Result, error)
	Chat(ctx context.Context, topic, userID string) (*pickup.ChatResult, error)
}

// PickupHandler 撩妹语生成处理器
type PickupHandler struct {
	svc PickupService
}

// NewPickupHandler 创建生成处理器
func NewPickupHandler(svc PickupService) *PickupHandler {
	return &PickupHandler{svc: svc}
}

// Generate 批量生成撩妹语
// @Summary 生成撩妹语
// @Description 上游失败时返回兜底内容并附带 note
// @Tags Pickup
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest false "生成参数"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/generate [post]
func (h *PickupHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	// 空请求体等同于 {}
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.BadRequest(c, "Invalid request body")
		return
	}

	genReq, err := req.ToGenerationRequest()
	if err != nil {
		var catErr *pickup.ErrInvalidCategory
		if errors.As(err, &catErr) {
			dto.BadRequest(c, "Invalid category. Use romantic, funny or naughty")
			return
		}
		dto.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.svc.Generate(ctx, genReq, middleware.GetUserIDFromGin(c))
	if err != nil {
		logger.Error(ctx, "failed to generate pickup lines", err)
		dto.FromAppError(c, err)
		return
	}

	dto.OK(c, dto.ToGenerateResponse(res))
}

// Chat 根据话题生成一句撩妹语
// @Summary 单句生成
// @Tags Pickup
// @Accept json
// @Produce json
// @Param body body dto.ChatRequest true "话题"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/chat [post]
func (h *PickupHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "Invalid request body")
		return
	}
	topic := strings.TrimSpace(req.Prompt)
	if topic == "" {
		dto.BadRequest(c, "Prompt is required")
		return
	}

	res, err := h.svc.Chat(ctx, topic, middleware.GetUserIDFromGin(c))
	if err != nil {
		logger.Error(ctx, "failed to generate chat line", err)
		dto.FromAppError(c, err)
		return
	}

	dto.OK(c, dto.ChatResponse{Text: res.Text, Note: res.Note})
}
