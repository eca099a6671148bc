// Package cache stores rendered verdict payloads keyed by normalized claim.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

const keyPrefix = "veracity:v1:"

// Cache stores opaque values with a TTL. A zero TTL means the layer default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ClaimKey fingerprints an already normalized claim.
// Claims differing only in case or surrounding whitespace share a key.
func ClaimKey(normalized string) string {
	hash := sha256.Sum256([]byte(foldKey(normalized)))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// New builds the configured cache: memory only when no directory is set,
// memory over disk otherwise. Returns nil when caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, cleanupInterval(cfg.MemoryTTL))
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > 10*time.Minute {
		return 10 * time.Minute
	}
	return ttl
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
