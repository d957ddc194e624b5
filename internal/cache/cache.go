package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for the run-scoped analysis cache
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from arbitrary content (e.g. an enrichment
// prompt), namespaced so schema changes invalidate old entries
func Key(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "dupaudit:v1:" + hex.EncodeToString(hash[:])
}
