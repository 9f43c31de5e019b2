package fs

import (
	"sync"
	"time"

	"github.com/aretw0/docview/pkg/core"
)

// cacheEntry is the decoded document of one file at a given mtime.
type cacheEntry struct {
	Doc          core.Document
	Size         int64
	LastModified time.Time
}

// cache keeps decoded documents so unchanged files are not parsed again on
// every reload. Entries are keyed by file name.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

// Get returns the entry for name if it is still fresh.
func (c *cache) Get(name string, mtime time.Time, size int64) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	if !entry.LastModified.Equal(mtime) || entry.Size != size {
		return nil, false
	}
	return entry, true
}

func (c *cache) Set(name string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry
}

// Prune removes entries that are not in the keep set.
func (c *cache) Prune(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name := range c.entries {
		if !keep[name] {
			delete(c.entries, name)
		}
	}
}

func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
