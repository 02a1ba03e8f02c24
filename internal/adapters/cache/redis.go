package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// RedisCache реализация CachePort поверх Redis
type RedisCache struct {
	client            *redis.Client
	prefix            string
	defaultExpiration time.Duration
}

// NewRedisCache подключается к Redis и проверяет соединение
func NewRedisCache(ctx context.Context, host string, port int, password string, db int, prefix string, defaultExpiration time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheWithClient(client, prefix, defaultExpiration), nil
}

// NewRedisCacheWithClient оборачивает готовый клиент
func NewRedisCacheWithClient(client *redis.Client, prefix string, defaultExpiration time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, defaultExpiration: defaultExpiration}
}

func (r *RedisCache) buildKey(key string) string {
	if r.prefix != "" {
		return r.prefix + ":" + key
	}
	return key
}

// Get реализация CachePort
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.buildKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, interfaces.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return val, nil
}

// Set реализация CachePort
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration == 0 {
		expiration = r.defaultExpiration
	}
	if err := r.client.Set(ctx, r.buildKey(key), value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Delete реализация CachePort
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// Close реализация CachePort
func (r *RedisCache) Close() error {
	return r.client.Close()
}
