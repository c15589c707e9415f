package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/internal/metrics"
	"github.com/d60-Lab/litreview/pkg/logger"
)

// VisibilityCache keeps each viewer's visibility set (self plus non-blocked
// followees) in a Redis list. A nil *VisibilityCache is a valid, disabled cache.
type VisibilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVisibilityCache returns nil when client is nil so callers can wire it unconditionally.
func NewVisibilityCache(client *redis.Client, ttl time.Duration) *VisibilityCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &VisibilityCache{client: client, ttl: ttl}
}

func key(viewerID string) string { return fmt.Sprintf("visibility:%s", viewerID) }
func genKey(viewerID string) string { return fmt.Sprintf("visibility:gen:%s", viewerID) }

// Generation 读取 viewer 的缓存代数；Invalidate 每次加一。
// ok=false 表示 redis 不可用，调用方不应回写。
func (c *VisibilityCache) Generation(ctx context.Context, viewerID string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	gen, err := c.client.Get(ctx, genKey(viewerID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn("visibility cache generation read failed", zap.String("viewer", viewerID), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Get returns the cached set. The set always contains the viewer, so an empty
// list is a miss.
func (c *VisibilityCache) Get(ctx context.Context, viewerID string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	ids, err := c.client.LRange(ctx, key(viewerID), 0, -1).Result()
	if err != nil {
		logger.Warn("visibility cache read failed", zap.String("viewer", viewerID), zap.Error(err))
		metrics.VisibilityCacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	if len(ids) == 0 {
		metrics.VisibilityCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.VisibilityCacheLookups.WithLabelValues("hit").Inc()
	return ids, true
}

// Set 仅在代数仍为 gen 时写入，避免并发 Invalidate 之后写回旧集合
func (c *VisibilityCache) Set(ctx context.Context, viewerID string, gen int64, ids []string) {
	if c == nil || len(ids) == 0 {
		return
	}
	k, gk := key(viewerID), genKey(viewerID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, k)
			pipe.RPush(ctx, k, interfaceSlice(ids)...)
			pipe.Expire(ctx, k, c.ttl)
			return nil
		})
		return err
	}, gk)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		logger.Debug("visibility cache write skipped, set changed", zap.String("viewer", viewerID))
	case err != nil:
		logger.Warn("visibility cache write failed", zap.String("viewer", viewerID), zap.Error(err))
	}
}

// Invalidate drops the viewer's cached set and bumps its generation; called
// after any change to the viewer's outgoing follow relations.
func (c *VisibilityCache) Invalidate(ctx context.Context, viewerID string) {
	if c == nil {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(viewerID))
		pipe.Del(ctx, key(viewerID))
		return nil
	})
	if err != nil {
		logger.Warn("visibility cache invalidate failed", zap.String("viewer", viewerID), zap.Error(err))
	}
}

func interfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}
