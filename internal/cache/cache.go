package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched chronicle bytes between runs
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a source location (path or URL)
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return "herbaut:v1:" + hex.EncodeToString(sum[:])
}
