// Package cache provides EmbeddingCache implementations and the content
// hash they share.
//
// Entries are keyed by a 64-bit HighwayHash of the exact UTF-8 bytes of the
// input, rendered as 16 hex digits. The hash key is fixed so cache keys are
// stable across processes and releases.
package cache

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("grimoire-embedding-cache-key-v1!")

// Key returns the cache key for text.
func Key(text string) string {
	return fmt.Sprintf("%016x", highwayhash.Sum64([]byte(text), hashKey))
}
