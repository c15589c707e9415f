package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*VisibilityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewVisibilityCache(client, time.Minute), mr
}

func TestVisibilityCache_SetGetInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "alice")
	assert.False(t, ok)

	c.Set(ctx, "alice", 0, []string{"alice", "bob"})
	ids, ok := c.Get(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, []string{"alice", "bob"}, ids)

	c.Set(ctx, "alice", 0, []string{"alice"})
	ids, ok = c.Get(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, ids)

	c.Invalidate(ctx, "alice")
	_, ok = c.Get(ctx, "alice")
	assert.False(t, ok)
}

func TestVisibilityCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "alice", 0, []string{"alice"})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "alice")
	assert.False(t, ok)
}

func TestVisibilityCache_NilIsDisabled(t *testing.T) {
	var c *VisibilityCache
	assert.Nil(t, NewVisibilityCache(nil, time.Minute))

	c.Set(context.Background(), "alice", 0, []string{"alice"})
	_, ok := c.Generation(context.Background(), "alice")
	assert.False(t, ok)
	c.Invalidate(context.Background(), "alice")
	_, ok = c.Get(context.Background(), "alice")
	assert.False(t, ok)
}

func TestVisibilityCache_StaleGenerationNotWritten(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	gen, ok := c.Generation(ctx, "alice")
	require.True(t, ok)
	assert.Zero(t, gen)

	// 读库期间发生了 Invalidate，旧集合不能再写回
	c.Invalidate(ctx, "alice")
	c.Set(ctx, "alice", gen, []string{"alice", "bob"})
	_, ok = c.Get(ctx, "alice")
	assert.False(t, ok)

	gen, ok = c.Generation(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, int64(1), gen)
	c.Set(ctx, "alice", gen, []string{"alice"})
	ids, ok := c.Get(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, ids)
}
