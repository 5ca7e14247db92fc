package search

import "github.com/kilianp07/geodeplan/core/model"

type cacheKey struct {
	elapsed   int
	producers model.Vector
}

// Cache remembers, for each (elapsed, producers) pair, the resource vectors
// already explored. Only mutually non-dominated vectors are kept per key.
type Cache struct {
	entries map[cacheKey][]model.Vector
	size    int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey][]model.Vector)}
}

// Admit reports whether st is worth expanding. It returns false when a
// stored vector at the same key covers st's resources. Otherwise st's
// resources are recorded and every stored vector they cover is evicted.
func (c *Cache) Admit(st State) bool {
	key := cacheKey{elapsed: st.Elapsed, producers: st.Producers}
	frontier := c.entries[key]
	for _, seen := range frontier {
		if seen.Covers(st.Resources) {
			return false
		}
	}
	kept := frontier[:0]
	for _, seen := range frontier {
		if !st.Resources.Covers(seen) {
			kept = append(kept, seen)
		}
	}
	c.size -= len(frontier) - len(kept)
	c.entries[key] = append(kept, st.Resources)
	c.size++
	return true
}

// Len returns the number of stored resource vectors.
func (c *Cache) Len() int { return c.size }

// Keys returns the number of distinct (elapsed, producers) pairs seen.
func (c *Cache) Keys() int { return len(c.entries) }
