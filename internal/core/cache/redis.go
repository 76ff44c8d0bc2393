package cache

import (
	"context"
	"fmt"

	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisStore Redis 快取後端
// 多實例部署時共享搜尋結果快取用，單機部署用記憶體後端即可
type RedisStore struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisStore 創建 Redis 快取後端
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	data, err := s.client.Get(ctx, s.namespacedKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", common.ErrCacheDisabled
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.namespacedKey(key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// namespacedKey 生成帶命名空間的緩存鍵
func (s *RedisStore) namespacedKey(key string) string {
	return fmt.Sprintf("search:result:%s", key)
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
