package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/catalog-manager/pkg/interfaces"
)

var (
	_ interfaces.CachePort = (*MemoryCache)(nil)
	_ interfaces.CachePort = (*RedisCache)(nil)
	_ interfaces.CachePort = Noop{}
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, interfaces.ErrCacheMiss)

	value := []byte("v1")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'X'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got, "stored value must not alias the caller's slice")

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestNoop_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Noop

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}
