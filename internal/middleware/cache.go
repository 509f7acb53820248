package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	cacheHeader = "X-Cache"
	cacheHitKey = "cache_hit"
)

// SetCacheHit marks whether the response was served from the statistics cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if c == nil {
		return
	}
	c.Set(cacheHitKey, hit)
	if hit {
		c.Header(cacheHeader, "HIT")
		return
	}
	c.Header(cacheHeader, "MISS")
}

// CacheHit reports the value recorded by SetCacheHit.
func CacheHit(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(cacheHitKey)
}
