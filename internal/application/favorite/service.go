// Package favorite 实现收藏的增删查：列表走缓存，变更时失效缓存并发布审计消息
package favorite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/domain/repository"
	"tagalog-rizz-api/internal/infrastructure/messaging"
	"tagalog-rizz-api/internal/infrastructure/persistence/redis"
	"tagalog-rizz-api/pkg/logger"
	"tagalog-rizz-api/pkg/metrics"
)

// ErrContentRequired 收藏内容为空
var ErrContentRequired = errors.New("content is required")

// Cache 列表缓存端口
type Cache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// AuditPublisher 审计消息端口
type AuditPublisher interface {
	PublishFavoriteAudit(ctx context.Context, audit *messaging.FavoriteAuditMessage) (string, error)
}

// Service 收藏服务；cache 与 audit 可为 nil（Redis 未启用）
type Service struct {
	repo     repository.FavoriteRepository
	tx       repository.Transactor
	cache    Cache
	audit    AuditPublisher
	cacheTTL time.Duration
}

// NewService 创建收藏服务
func NewService(repo repository.FavoriteRepository, tx repository.Transactor, cache Cache, audit AuditPublisher, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		cache:    cache,
		audit:    audit,
		cacheTTL: cacheTTL,
	}
}

// List 按创建时间倒序列出用户收藏
func (s *Service) List(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	if s.cache == nil || s.cacheTTL <= 0 {
		favorites, err := s.repo.ListByUser(ctx, userID)
		s.observe("list", err)
		return favorites, err
	}

	raw, err := s.cache.GetOrLoadSafe(ctx, redis.FavoritesKey(userID), s.cacheTTL, func() (any, error) {
		return s.repo.ListByUser(ctx, userID)
	})
	if err != nil {
		s.observe("list", err)
		return nil, err
	}

	favorites := make([]*entity.Favorite, 0)
	if err := json.Unmarshal(raw, &favorites); err != nil {
		// 缓存内容损坏时直接回源
		logger.Warn(ctx, "favorites cache entry is unreadable", "user_id", userID, "error", err.Error())
		s.invalidate(ctx, userID)
		favorites, err = s.repo.ListByUser(ctx, userID)
		s.observe("list", err)
		return favorites, err
	}
	s.observe("list", nil)
	return favorites, nil
}

// Create 保存一条收藏
func (s *Service) Create(ctx context.Context, userID, content, translation string) (*entity.Favorite, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}

	favorite := entity.NewFavorite(userID, content, translation)
	if err := s.repo.Create(ctx, favorite); err != nil {
		s.observe("create", err)
		return nil, err
	}
	s.observe("create", nil)

	s.invalidate(ctx, userID)
	s.publish(ctx, messaging.ActionFavoriteCreated, favorite)
	return favorite, nil
}

// Delete 删除用户自己的收藏；不存在或属于他人时静默成功
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		// 非法 ID 不可能匹配任何记录
		s.observe("delete", nil)
		return nil
	}

	var deleted *entity.Favorite
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		favorite, err := s.repo.GetByID(ctx, userID, id)
		if err != nil || favorite == nil {
			return err
		}
		ok, err := s.repo.Delete(ctx, userID, id)
		if err != nil {
			return err
		}
		if ok {
			deleted = favorite
		}
		return nil
	})
	if err != nil {
		s.observe("delete", err)
		return fmt.Errorf("delete favorite: %w", err)
	}
	s.observe("delete", nil)

	if deleted != nil {
		s.invalidate(ctx, userID)
		s.publish(ctx, messaging.ActionFavoriteDeleted, deleted)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, redis.FavoritesKey(userID)); err != nil {
		logger.Warn(ctx, "failed to invalidate favorites cache", "user_id", userID, "error", err.Error())
	}
}

func (s *Service) publish(ctx context.Context, action string, favorite *entity.Favorite) {
	if s.audit == nil {
		return
	}
	_, err := s.audit.PublishFavoriteAudit(ctx, &messaging.FavoriteAuditMessage{
		Action:     action,
		UserID:     favorite.UserID,
		FavoriteID: favorite.ID,
		Content:    favorite.Content,
		RequestID:  logger.GetRequestID(ctx),
		TraceID:    logger.GetTraceID(ctx),
	})
	if err != nil {
		logger.Warn(ctx, "failed to publish favorite audit", "action", action, "error", err.Error())
	}
}

func (s *Service) observe(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.FavoritesOperationsTotal.WithLabelValues(op, status).Inc()
}
