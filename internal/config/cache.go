package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled.  Methods lists the HTTP methods to cache.  TTL defines the
// lifetime of cache entries.  KeyStrategy determines which parts of the
// request contribute to the cache key.  Prefix and MaxBodyBytes control
// namespacing and the maximum size of responses to cache.
type CacheConfig struct {
	Enabled      bool            `koanf:"enabled"`
	MethodList   string          `koanf:"methods"`
	Methods      map[string]bool `koanf:"-"`
	TTL          time.Duration   `koanf:"ttl"`
	KeyStrategy  string          `koanf:"key_strategy" validate:"oneof=route route_query method_route method_route_query"`
	Prefix       string          `koanf:"prefix" validate:"required"`
	MaxBodyBytes int             `koanf:"max_body_bytes" validate:"min=0"`
}

// DefaultCacheConfig caches GET listing pages for a short time so that the
// past/upcoming split never lags far behind the clock.
func DefaultCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:      true,
		MethodList:   "GET",
		TTL:          30 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
	c.normalize()
	return c
}

func (c *CacheConfig) normalize() {
	c.Methods = parseMethods(c.MethodList)
	if c.TTL <= 0 {
		c.TTL = time.Second
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
