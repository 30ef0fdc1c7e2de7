package config

import "time"

// RateLimitConfig tunes the Redis token bucket placed in front of the form
// submissions.
type RateLimitConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Capacity       int           `koanf:"capacity"`
	RefillTokens   int           `koanf:"refill_tokens"`
	RefillInterval time.Duration `koanf:"refill_interval"`
	TTL            time.Duration `koanf:"ttl"`
	KeyStrategy    string        `koanf:"key_strategy" validate:"oneof=ip route ip_route"`
	Prefix         string        `koanf:"prefix" validate:"required"`
	Debug          bool          `koanf:"debug"`
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        true,
		Capacity:       30,
		RefillTokens:   1,
		RefillInterval: 2 * time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}
