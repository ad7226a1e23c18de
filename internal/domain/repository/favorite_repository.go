// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"tagalog-rizz-api/internal/domain/entity"
)

// FavoriteRepository 收藏仓储接口
type FavoriteRepository interface {
	// Create 创建收藏，写回 ID 与创建时间
	Create(ctx context.Context, favorite *entity.Favorite) error

	// GetByID 获取用户自己的收藏，不存在或不属于该用户时返回 nil
	GetByID(ctx context.Context, userID, id string) (*entity.Favorite, error)

	// ListByUser 按创建时间倒序列出用户收藏
	ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error)

	// Delete 删除用户自己的收藏，返回是否删除了记录
	Delete(ctx context.Context, userID, id string) (bool, error)
}
