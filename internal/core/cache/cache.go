// Package cache provides the TTL cache used by the prefill pipeline, with
// an in-process implementation and a Redis-backed one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Store is the cache the prefill pipeline talks to. A miss is reported via
// the boolean, not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Stats() map[string]interface{}
	Close() error
}

// HashKey derives a fixed-length cache key from an arbitrary identifier.
func HashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
