// Package cache memoizes directory aggregate sizes keyed by absolute path.
package cache

import (
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one cached aggregate size
type Entry struct {
	Path       string
	Size       int64
	ComputedAt time.Time
}

// SizeCache maps absolute paths to their last computed aggregate size.
// Reads may come from multiple scan workers concurrently; writes are
// serialized and last-write-wins. A miss always means a fresh scan, never a
// stale fallback.
type SizeCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewSizeCache returns an empty cache
func NewSizeCache() *SizeCache {
	return &SizeCache{entries: make(map[string]Entry)}
}

// Get returns the cached size for path, if one was computed
func (c *SizeCache) Get(path string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	return e.Size, ok
}

// Put records the aggregate size for path. Writing the same size twice is a
// no-op beyond the timestamp update.
func (c *SizeCache) Put(path string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = Entry{Path: path, Size: size, ComputedAt: time.Now()}
}

// Invalidate drops path and every cached ancestor of path, since an
// ancestor's aggregate is stale once anything beneath it changes.
func (c *SizeCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, path)
	for p := filepath.Dir(path); ; p = filepath.Dir(p) {
		delete(c.entries, p)
		if p == filepath.Dir(p) {
			break
		}
	}
}

// InvalidateSubtree drops path and everything cached under it. Used after a
// directory is deleted.
func (c *SizeCache) InvalidateSubtree(path string) {
	prefix := path + string(filepath.Separator)

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, path)
	for p := range c.entries {
		if strings.HasPrefix(p, prefix) {
			delete(c.entries, p)
		}
	}
}

// Len returns the number of cached entries
func (c *SizeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies out all entries, for persistence
func (c *SizeCache) Snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// Seed inserts entries wholesale, preserving their original timestamps.
// Used to warm the cache from a persisted snapshot at startup.
func (c *SizeCache) Seed(entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		c.entries[e.Path] = e
	}
}
