// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"tagalog-rizz-api/internal/domain/entity"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Upsert 按 ID 插入或更新邮箱与最后登录时间
	Upsert(ctx context.Context, user *entity.User) error

	// GetByID 根据 ID 获取用户，不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
