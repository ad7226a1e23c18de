package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/domain/repository"
)

// FavoriteRepository 收藏仓储实现
type FavoriteRepository struct {
	client *Client
}

// NewFavoriteRepository 创建收藏仓储
func NewFavoriteRepository(client *Client) *FavoriteRepository {
	return &FavoriteRepository{client: client}
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)

// Create 创建收藏
func (r *FavoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	ctx, span := tracer.Start(ctx, "postgres.FavoriteRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(favorite).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

// GetByID 获取用户自己的收藏
func (r *FavoriteRepository) GetByID(ctx context.Context, userID, id string) (*entity.Favorite, error) {
	ctx, span := tracer.Start(ctx, "postgres.FavoriteRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var favorite entity.Favorite
	if err := db.First(&favorite, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return &favorite, nil
}

// ListByUser 按创建时间倒序列出用户收藏
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	ctx, span := tracer.Start(ctx, "postgres.FavoriteRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	favorites := make([]*entity.Favorite, 0)
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// Delete 删除用户自己的收藏
func (r *FavoriteRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.FavoriteRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Favorite{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return false, fmt.Errorf("failed to delete favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
