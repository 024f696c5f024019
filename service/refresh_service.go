package services

import (
	"context"
	"time"

	"backwater-server/cache"
	"backwater-server/log"
)

// RefreshService drops every cached report on request, so the next query
// recomputes from the imagery service.
type RefreshService struct {
	resultCache *cache.ResultCache
}

// NewRefreshService constructs a new RefreshService with dependencies.
func NewRefreshService(resultCache *cache.ResultCache) *RefreshService {
	return &RefreshService{resultCache: resultCache}
}

// Refresh clears the result cache and returns how many entries were dropped.
func (rs *RefreshService) Refresh(ctx context.Context) (int, error) {
	log.Infof("[RefreshService] Clearing cached reports.")
	started := time.Now()
	deleted, err := rs.resultCache.Clear(ctx)
	if err != nil {
		log.Errorf("[RefreshService] Clear returned error: %v", err)
		return deleted, err
	}
	log.Infof("[RefreshService] Cleared %d cached reports in %s.", deleted, time.Since(started).Round(time.Millisecond))
	return deleted, nil
}
