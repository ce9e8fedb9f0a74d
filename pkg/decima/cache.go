package decima

import (
	"sync"

	"github.com/bastiangx/decimaserve/pkg/meter"
	"github.com/charmbracelet/log"
)

// CountCache remembers syllable counts by verse text. A count depends on the
// text alone, so a hit is always equal to a fresh Count.
type CountCache struct {
	counts      map[string]int
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewCountCache returns a cache holding at most maxEntries verses.
func NewCountCache(maxEntries int) *CountCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &CountCache{
		counts:     make(map[string]int, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Count returns meter.Count(text), computing it only on a miss.
func (c *CountCache) Count(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.counts[text]; ok {
		c.hits++
		c.markAccessed(text)
		return n
	}

	c.misses++
	n := meter.Count(text)
	if len(c.counts) >= c.maxEntries {
		c.evictLRU()
	}
	c.counts[text] = n
	c.markAccessed(text)
	return n
}

// Stats reports cache usage.
func (c *CountCache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cachedVerses": len(c.counts),
		"maxVerses":    c.maxEntries,
		"cacheHits":    int(c.hits),
		"cacheMisses":  int(c.misses),
	}
}

func (c *CountCache) markAccessed(text string) {
	c.accessCount++
	c.accessTime[text] = c.accessCount
}

func (c *CountCache) evictLRU() {
	var oldest string
	var oldestTime int64 = 1<<63 - 1

	for text, t := range c.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = text
		}
	}

	if oldestTime != 1<<63-1 {
		delete(c.counts, oldest)
		delete(c.accessTime, oldest)
		log.Debugf("Evicted verse %q from count cache", oldest)
	}
}
