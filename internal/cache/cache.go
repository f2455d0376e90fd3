// Package cache provides a layered (memory + disk) cache for external
// lookup results, so repeated entity resolutions never hit the network
// twice within a TTL window.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Store is a byte-oriented cache layer
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// Key derives a stable cache key from lookup parameters
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "musegraph:v1:" + hex.EncodeToString(hash[:])
}
