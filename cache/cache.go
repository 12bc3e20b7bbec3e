// Package cache provides translation caches that sit in front of the
// provider router: a bounded in-process cache and a Redis cache shared
// between processes.
package cache

import (
	"fmt"
	"time"

	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
)

// TranslationCache is the interface for translation caching.
// This is an alias to the main package interface for convenience.
type TranslationCache = chattl.TranslationCache

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and tunes a cache backend.
type Config struct {
	Backend       string
	Capacity      int           // memory: maximum entries (0 = unbounded)
	TTL           time.Duration // 0 = no expiration
	RedisAddr     string        // host:port or redis:// URL
	RedisPassword string
	RedisDB       int
	Prefix        string // redis key prefix (default: "chattl:")
	Logger        pslog.Logger
}

// New builds the cache described by cfg. BackendNone returns a nil cache,
// which chattl.NewCachedProvider treats as disabled.
func New(cfg Config) (TranslationCache, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewInMemoryCache(cfg.Capacity, cfg.TTL), nil
	case BackendRedis:
		c, err := NewRedisCache(RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			TTL:       cfg.TTL,
			KeyPrefix: cfg.Prefix,
			Logger:    cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, &chattl.ConfigError{Field: "cache.backend", Message: fmt.Sprintf("unsupported backend %q", cfg.Backend)}
}
