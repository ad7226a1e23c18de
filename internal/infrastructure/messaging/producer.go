package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tagalog-rizz-api/internal/config"
	"tagalog-rizz-api/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

const defaultMaxLen = 100000

// Producer 消息生产者
type Producer struct {
	client      *redis.Client
	maxLen      int64
	auditStream Stream
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, cfg config.RedisStreamConfig) *Producer {
	p := &Producer{
		client:      client,
		maxLen:      cfg.MaxLen,
		auditStream: Stream(cfg.AuditStream),
	}
	if p.maxLen <= 0 {
		p.maxLen = defaultMaxLen
	}
	if p.auditStream == "" {
		p.auditStream = StreamFavoritesAudit
	}
	return p
}

// Publish 发布消息到指定流，流长度近似裁剪到 maxLen
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"type": msg.Type,
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		metrics.RedisStreamPublished.WithLabelValues(string(stream), "error").Inc()
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.RedisStreamPublished.WithLabelValues(string(stream), "ok").Inc()
	span.SetAttributes(attribute.String("stream.message_id", id))
	return id, nil
}

// PublishFavoriteAudit 发布收藏审计消息
func (p *Producer) PublishFavoriteAudit(ctx context.Context, audit *FavoriteAuditMessage) (string, error) {
	msg, err := NewMessage("", audit.Action, audit.UserID, audit)
	if err != nil {
		return "", err
	}
	if audit.RequestID != "" {
		msg.SetMetadata("request_id", audit.RequestID)
	}
	return p.Publish(ctx, p.auditStream, msg)
}
