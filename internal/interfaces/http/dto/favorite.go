package dto

import (
	"time"

	"tagalog-rizz-api/internal/domain/entity"
)

// FavoriteRequest 收藏请求
type FavoriteRequest struct {
	Content     string `json:"content"`
	Translation string `json:"translation"`
}

// FavoriteResponse 收藏记录
type FavoriteResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	Translation *string   `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToFavoriteResponse 将领域实体转换为 DTO
func ToFavoriteResponse(f *entity.Favorite) *FavoriteResponse {
	return &FavoriteResponse{
		ID:          f.ID,
		UserID:      f.UserID,
		Content:     f.Content,
		Translation: f.Translation,
		CreatedAt:   f.CreatedAt,
	}
}

// ToFavoriteList 转换收藏列表，空列表输出 []
func ToFavoriteList(list []*entity.Favorite) []*FavoriteResponse {
	out := make([]*FavoriteResponse, 0, len(list))
	for _, f := range list {
		out = append(out, ToFavoriteResponse(f))
	}
	return out
}
