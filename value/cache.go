package value

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize is the capacity of a cache created with a non-positive
// size.
const DefaultCacheSize = 4096

// Cache memoizes outcomes by input text and reference year, evicting the
// least recently used entry when full. It is safe for concurrent use and
// may be shared between parsers.
type Cache struct {
	entries *lru.Cache // cacheKey -> cacheEntry
	hits    atomic.Int64
	misses  atomic.Int64
}

type cacheKey struct {
	hash uint64
	year int
}

// cacheEntry keeps the input so hash collisions are detected.
type cacheEntry struct {
	input   string
	outcome Outcome
}

// NewCache returns an empty cache holding up to size outcomes.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	entries, err := lru.New(size)
	if err != nil {
		panic("value: " + err.Error()) // only for size <= 0
	}

	return &Cache{entries: entries}
}

func (c *Cache) load(s string, year int) (Outcome, bool) {
	v, ok := c.entries.Get(cacheKey{hash: xxh3.HashString(s), year: year})
	if ok {
		if e, ok := v.(cacheEntry); ok && e.input == s {
			c.hits.Add(1)

			return e.outcome, true
		}
	}

	c.misses.Add(1)

	return Outcome{}, false
}

func (c *Cache) store(s string, year int, o Outcome) {
	c.entries.Add(cacheKey{hash: xxh3.HashString(s), year: year}, cacheEntry{input: s, outcome: o})
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int { return c.entries.Len() }

// Stats returns the number of cache hits and misses.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Clear removes every entry and resets the counters.
func (c *Cache) Clear() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}
