package location

import (
	"strings"
	"sync"

	"github.com/poiesic/pitchfinder/ai"
)

// Key identifies one location question after normalization.
type Key struct {
	Query   string
	City    string
	Country string
}

// NewKey trims and lowercases the triple.
func NewKey(query, city, country string) Key {
	return Key{
		Query:   normalize(query),
		City:    normalize(city),
		Country: normalize(country),
	}
}

func (k Key) String() string {
	return k.Query + "\x00" + k.City + "\x00" + k.Country
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Cache memoizes location answers. It never evicts; the number of distinct
// (phrase, city, country) triples seen by one process is small.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]ai.Result[bool]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[Key]ai.Result[bool]),
	}
}

// Get returns the cached answer for key.
func (c *Cache) Get(key Key) (ai.Result[bool], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

// Put stores an answer, replacing any previous one.
func (c *Cache) Put(key Key, r ai.Result[bool]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = r
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every cached answer.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
