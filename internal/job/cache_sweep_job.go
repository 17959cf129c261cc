package job

import (
	"context"

	"github.com/legalchat/legalchat/internal/cache"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// CacheSweepJob purges expired answer and retrieval cache entries. Reads
// already evict lazily; the sweep bounds memory when keys stop being read.
type CacheSweepJob struct {
	cache *cache.Cache
}

func NewCacheSweepJob(c *cache.Cache) *CacheSweepJob {
	return &CacheSweepJob{cache: c}
}

func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

func (j *CacheSweepJob) Run(ctx context.Context) error {
	if j.cache == nil {
		return nil
	}
	purged := j.cache.Sweep()
	logutil.GetLogger(ctx).Info("cache swept",
		zap.Int("purged", purged),
		zap.Int("remaining", j.cache.Len()))
	return nil
}
