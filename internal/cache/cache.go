// Package cache stores fetched result pages between runs, so that
// re-running a qualification check against the same URLs does not hammer
// the result services.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface shared by the memory, disk and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a result page URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "limitscan:v1:" + hex.EncodeToString(hash[:])
}
