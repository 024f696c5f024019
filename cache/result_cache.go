package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"backwater-server/dao/redis"
	"backwater-server/log"
	"backwater-server/metrics"
)

// ResultCache memoizes computed reports keyed by their parameters. Entries
// are immutable snapshots; Clear drops all of them at once.
type ResultCache struct {
	dao   *redis.RedisReportDAO
	group singleflight.Group
}

func NewResultCache(dao *redis.RedisReportDAO) *ResultCache {
	return &ResultCache{dao: dao}
}

// GenerateKey hashes the parameter tuple into a key within the namespace of kind.
func GenerateKey(kind string, params ...interface{}) string {
	parts := make([]string, 0, len(params))
	for _, param := range params {
		parts = append(parts, fmt.Sprintf("%v", param))
	}
	h := sha1.New()
	h.Write([]byte(strings.Join(parts, "_")))
	return redis.ReportKey(kind, hex.EncodeToString(h.Sum(nil)))
}

// GetOrCompute returns the cached value for key or computes, stores and
// returns it. Concurrent callers for the same key share one computation.
// Errors are never cached, and a failing cache only costs a recomputation.
// The boolean reports whether the value came from the cache.
func GetOrCompute[T any](ctx context.Context, c *ResultCache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, bool, error) {
	kind := redis.KindOf(key)

	var cached T
	found, err := c.dao.GetReport(key, &cached)
	if err != nil {
		log.Warnf("[ResultCache] read of %s failed, recomputing: %v", key, err)
	}
	metrics.IncCacheLookup(kind, found)
	if found {
		return cached, true, nil
	}

	// The shared computation outlives any single caller; each caller stops
	// waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		value, err := compute(shared)
		if err != nil {
			return value, err
		}
		if err := c.dao.SetReport(key, value, ttl); err != nil {
			log.Warnf("[ResultCache] write of %s failed: %v", key, err)
		}
		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(T), false, nil
	}
}

// Clear drops every cached report.
func (c *ResultCache) Clear(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	deleted, err := c.dao.DeleteAll()
	if err != nil {
		return deleted, fmt.Errorf("failed to clear result cache: %w", err)
	}
	metrics.IncCacheClear()
	return deleted, nil
}
