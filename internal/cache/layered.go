package cache

import "time"

// Layered checks memory first, then disk, promoting disk hits to memory
type Layered struct {
	memory Store
	disk   Store
}

// NewLayered creates a memory+disk cache. An empty diskDir disables the
// disk layer.
func NewLayered(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *Layered {
	l := &Layered{memory: NewMemory(memoryTTL)}
	if diskDir != "" {
		l.disk = NewDisk(diskDir, diskTTL)
	}
	return l
}

// Get retrieves a value from the first layer that has it
func (l *Layered) Get(key string) ([]byte, bool) {
	if val, found := l.memory.Get(key); found {
		return val, true
	}
	if l.disk != nil {
		if val, found := l.disk.Get(key); found {
			l.memory.Set(key, val, 0)
			return val, true
		}
	}
	return nil, false
}

// Set stores a value in every layer
func (l *Layered) Set(key string, value []byte, ttl time.Duration) {
	l.memory.Set(key, value, ttl)
	if l.disk != nil {
		l.disk.Set(key, value, ttl)
	}
}
