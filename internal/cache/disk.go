package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Disk is the persistent cache layer: one JSON file per key, expiry
// checked on read
type Disk struct {
	dir string
	ttl time.Duration
}

// NewDisk creates a disk cache rooted at dir
func NewDisk(dir string, ttl time.Duration) *Disk {
	return &Disk{dir: dir, ttl: ttl}
}

type diskEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value, removing the file if it has expired
func (d *Disk) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(d.path(key))
		return nil, false
	}
	return entry.Data, true
}

// Set stores a value with the given TTL (0 = default). Write failures are
// silent: a cache miss later is the only consequence.
func (d *Disk) Set(key string, value []byte, ttl time.Duration) {
	if ttl == 0 {
		ttl = d.ttl
	}
	entry := diskEntry{Data: value, ExpiresAt: time.Now().Add(ttl)}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(d.path(key), data, 0o644)
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key+".cache")
}
