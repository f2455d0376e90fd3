package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("wikidata", "European Union", "Organization")
	b := Key("wikidata", "European Union", "Organization")
	if a != b {
		t.Error("same parts must derive the same key")
	}
	if a == Key("wikidata", "European Union", "Location") {
		t.Error("different parts must derive different keys")
	}
	// Joining with a separator keeps ("ab","c") and ("a","bc") apart
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("part boundaries must affect the key")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory(time.Minute)
	if _, found := m.Get("missing"); found {
		t.Error("unexpected hit on empty cache")
	}

	m.Set("k", []byte("v"), 0)
	val, found := m.Get("k")
	if !found || !bytes.Equal(val, []byte("v")) {
		t.Errorf("got %q, %v", val, found)
	}
}

func TestDisk(t *testing.T) {
	d := NewDisk(t.TempDir(), time.Minute)

	d.Set(Key("a"), []byte("value"), 0)
	val, found := d.Get(Key("a"))
	if !found || !bytes.Equal(val, []byte("value")) {
		t.Errorf("got %q, %v", val, found)
	}
	if _, found := d.Get(Key("b")); found {
		t.Error("unexpected hit for unset key")
	}
}

func TestDisk_Expiry(t *testing.T) {
	d := NewDisk(t.TempDir(), time.Minute)

	d.Set(Key("a"), []byte("stale"), -time.Second)
	if _, found := d.Get(Key("a")); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayered_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// A previous process left an entry on disk
	NewDisk(dir, time.Minute).Set(Key("a"), []byte("persisted"), 0)

	l := NewLayered(time.Minute, dir, time.Minute)
	val, found := l.Get(Key("a"))
	if !found || !bytes.Equal(val, []byte("persisted")) {
		t.Fatalf("got %q, %v", val, found)
	}

	// Promoted to memory: still served after the disk copy disappears
	NewDisk(dir, time.Minute).Set(Key("a"), nil, -time.Second)
	if _, found := l.Get(Key("a")); !found {
		t.Error("expected promoted entry to hit memory")
	}
}

func TestLayered_MemoryOnly(t *testing.T) {
	l := NewLayered(time.Minute, "", time.Minute)
	l.Set("k", []byte("v"), 0)
	if val, found := l.Get("k"); !found || !bytes.Equal(val, []byte("v")) {
		t.Errorf("got %q, %v", val, found)
	}
}
