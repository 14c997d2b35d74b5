package providers

import (
	"aprd/internal/structures"

	"github.com/coocood/freecache"
)

const minCacheSizeBytes = 512 * 1024

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttlSec int)
	Del(key string)
}

type CacheProvider struct {
	cache *freecache.Cache
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Probe cache disabled")
		return &noopCache{}
	}

	sizeBytes := max(conf.Cache.Size*1024*1024, minCacheSizeBytes)
	logger.Infof(TypeApp, "Probe cache initialized: %dMB, TTL=%ds, failure backoff=%ds",
		conf.Cache.Size, conf.Cache.TTLSec, conf.Cache.FailureBackoffSec)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
	}
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set is a no-op for non-positive TTLs; freecache treats 0 as "never expire".
func (c *CacheProvider) Set(key string, value []byte, ttlSec int) {
	if ttlSec <= 0 {
		return
	}
	_ = c.cache.Set([]byte(key), value, ttlSec)
}

func (c *CacheProvider) Del(key string) {
	c.cache.Del([]byte(key))
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool)   { return nil, false }
func (n *noopCache) Set(_ string, _ []byte, _ int) {}
func (n *noopCache) Del(_ string)                  {}
