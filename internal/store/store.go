package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/ivlev/lrcframe/internal/lrc"
)

// KeyPrefix namespaces parsed lyrics in shared caches
const KeyPrefix = "lrc:"

// Cache keeps parsed lines keyed by the hash of the raw text
type Cache interface {
	Get(ctx context.Context, key string) ([]lrc.TimedLine, bool, error)
	Set(ctx context.Context, key string, lines []lrc.TimedLine) error
}

// Key returns the cache key for a raw LRC text
func Key(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// MemoryCache is an in-process Cache
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]lrc.TimedLine
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]lrc.TimedLine)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]lrc.TimedLine, bool, error) {
	c.mu.RLock()
	lines, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return copyLines(lines), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, lines []lrc.TimedLine) error {
	c.mu.Lock()
	c.items[key] = copyLines(lines)
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached entries
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// copyLines detaches the slice and style maps from the caller
func copyLines(lines []lrc.TimedLine) []lrc.TimedLine {
	out := make([]lrc.TimedLine, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.Style != nil {
			out[i].Style = make(lrc.Style, len(l.Style))
			for k, v := range l.Style {
				out[i].Style[k] = v
			}
		}
	}
	return out
}
