package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInstrumentedCache_CountsHitsAndMisses(t *testing.T) {
	metrics := &mockMetrics{}
	logger := &requestLogger{}
	c := NewInstrumentedCacheProvider(cacheConfig(true, 1, 5*time.Second), logger, metrics)
	assert.IsType(t, &JournalReadCache{}, c)

	_, ok := c.Get("stats:2024")
	assert.False(t, ok)

	c.Set("stats:2024", []byte("{}"))
	_, ok = c.Get("stats:2024")
	assert.True(t, ok)

	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)

	c.Clear()
	_, ok = c.Get("stats:2024")
	assert.False(t, ok)
	assert.Equal(t, 2, metrics.misses)
	assert.Equal(t, 1, metrics.invalidations)
	if assert.Len(t, logger.debug, 1) {
		assert.Equal(t, TypeEnum(TypePost), logger.debug[0].typ)
	}
}

func TestInstrumentedCache_DisabledIsNotWrapped(t *testing.T) {
	metrics := &mockMetrics{}
	c := NewInstrumentedCacheProvider(cacheConfig(false, 1, 5*time.Second), &cacheTestLogger{}, metrics)
	assert.IsType(t, &noopCache{}, c)

	c.Get("x")
	c.Clear()
	assert.Equal(t, 0, metrics.misses)
	assert.Equal(t, 0, metrics.invalidations)
}
