package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagalog-rizz-api/internal/config"
)

func TestProducer_PublishFavoriteAudit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	p := NewProducer(rdb, config.RedisStreamConfig{AuditStream: "stream:test:audit"})
	ctx := context.Background()

	id, err := p.PublishFavoriteAudit(ctx, &FavoriteAuditMessage{
		Action:     ActionFavoriteCreated,
		UserID:     "user-1",
		FavoriteID: "fav-1",
		Content:    "Kape ka ba?",
		RequestID:  "req-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := rdb.XRange(ctx, "stream:test:audit", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionFavoriteCreated, entries[0].Values["type"])

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &msg))
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "user-1", msg.UserID)
	assert.Equal(t, "req-1", msg.Metadata["request_id"])

	var payload FavoriteAuditMessage
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, "fav-1", payload.FavoriteID)
	assert.Equal(t, "Kape ka ba?", payload.Content)
}

func TestNewProducer_Defaults(t *testing.T) {
	p := NewProducer(nil, config.RedisStreamConfig{})
	assert.Equal(t, int64(defaultMaxLen), p.maxLen)
	assert.Equal(t, StreamFavoritesAudit, p.auditStream)
}

func TestProducer_PublishError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	p := NewProducer(rdb, config.RedisStreamConfig{})
	_, err := p.PublishFavoriteAudit(context.Background(), &FavoriteAuditMessage{Action: ActionFavoriteDeleted, UserID: "u"})
	assert.Error(t, err)
}
