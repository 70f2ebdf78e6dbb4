package contentguard

import (
	"strings"
	"sync"
)

// Cache memoizes the Matcher compiled for the most recent blacklist snapshot.
// Callers still fetch the blacklist before every check; the cache only avoids
// recompiling patterns when the fetched list has not changed.
//
// The zero value is ready to use. Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	key     string
	matcher *Matcher

	hits, misses uint64
}

// Matcher returns the compiled matcher for words, compiling it only when the
// normalized word list differs from the previous call.
func (c *Cache) Matcher(words []string) (*Matcher, error) {
	key := snapshotKey(words)

	c.mu.Lock()
	if c.matcher != nil && c.key == key {
		m := c.matcher
		c.hits++
		c.mu.Unlock()
		return m, nil
	}
	c.misses++
	c.mu.Unlock()

	m, err := NewMatcher(words)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.key, c.matcher = key, m
	c.mu.Unlock()
	return m, nil
}

// Stats returns how many lookups reused and recompiled a snapshot.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// snapshotKey identifies a blacklist by its normalized words in order.
func snapshotKey(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if n := NormalizeWord(w); n != "" {
			b.WriteString(n)
			b.WriteByte(0)
		}
	}
	return b.String()
}
