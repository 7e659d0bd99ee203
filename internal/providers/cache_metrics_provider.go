package providers

import "ponydiary/internal/structures"

// JournalReadCache fronts the response cache used by journal reads (day
// entries, year listings and stats). Lookups feed the hit/miss counters and
// every write-triggered Clear is counted as an invalidation.
type JournalReadCache struct {
	inner   CacheProviderInterface
	logger  Logger
	metrics MetricsProviderInterface
}

func (c *JournalReadCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *JournalReadCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func (c *JournalReadCache) Clear() {
	c.inner.Clear()
	c.metrics.IncCacheInvalidations()
	c.logger.Debugf(TypePost, "Journal read cache invalidated")
}

// NewInstrumentedCacheProvider returns the journal read cache. A disabled
// cache is returned bare so reads are not reported as misses.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &JournalReadCache{
		inner:   inner,
		logger:  logger,
		metrics: metrics,
	}
}
