package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss 缓存未命中
var ErrMiss = redis.Nil

// Store 活动详情的读缓存，键为 collect_detail_<id>
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func detailKey(collectID int64) string {
	return fmt.Sprintf("collect_detail_%d", collectID)
}

// GetCollectDetail 读取缓存的活动详情，未命中返回 ErrMiss
func (s *Store) GetCollectDetail(ctx context.Context, collectID int64, dest interface{}) error {
	data, err := s.client.Get(ctx, detailKey(collectID)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetCollectDetail 写入活动详情缓存
func (s *Store) SetCollectDetail(ctx context.Context, collectID int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, detailKey(collectID), data, s.ttl).Err()
}

// InvalidateCollectDetail 删除活动详情缓存
func (s *Store) InvalidateCollectDetail(ctx context.Context, collectID int64) error {
	return s.client.Del(ctx, detailKey(collectID)).Err()
}
