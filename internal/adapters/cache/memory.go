package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

// MemoryCache реализация CachePort в памяти процесса
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache создает кэш в памяти с периодической очисткой просроченных записей
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultExpiration, cleanupInterval)}
}

// Get реализация CachePort
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := m.store.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return data, nil
}

// Set реализация CachePort
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration == 0 {
		expiration = gocache.DefaultExpiration
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.store.Set(key, stored, expiration)
	return nil
}

// Delete реализация CachePort
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

// Close реализация CachePort
func (m *MemoryCache) Close() error {
	m.store.Flush()
	return nil
}

// Noop кэш, который ничего не хранит (cache.driver = none)
type Noop struct{}

// Get реализация CachePort
func (Noop) Get(context.Context, string) ([]byte, error) { return nil, interfaces.ErrCacheMiss }

// Set реализация CachePort
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete реализация CachePort
func (Noop) Delete(context.Context, string) error { return nil }

// Close реализация CachePort
func (Noop) Close() error { return nil }
