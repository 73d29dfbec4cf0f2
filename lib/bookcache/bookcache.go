// Package bookcache caches slow per-book lookups with bounded
// staleness. Callers inject the loader; the cache only decides whether
// a stored value is still fresh.
package bookcache

import (
	"sync"
	"time"
)

// DefaultTTL bounds how stale a cached value may be.
const DefaultTTL = 30 * time.Second

// Cache holds per-book entries which expire after TTL. The zero value
// is not usable; use New.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	mutex sync.Mutex
	books map[string]*entry
}

type entry struct {
	earliestDate time.Time
	earliestSet  time.Time
	accountGUIDs []string
	accountsSet  time.Time
}

// New creates a cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:   ttl,
		now:   time.Now,
		books: make(map[string]*entry),
	}
}

// EarliestDate returns the cached earliest transaction date for the
// book, calling load on a miss or after expiry.
func (c *Cache) EarliestDate(book string, load func() (time.Time, error)) (time.Time, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	e := c.entry(book)
	if !e.earliestSet.IsZero() && c.now().Sub(e.earliestSet) < c.ttl {
		return e.earliestDate, nil
	}
	res, err := load()
	if err != nil {
		return time.Time{}, err
	}
	e.earliestDate = res
	e.earliestSet = c.now()
	return res, nil
}

// AccountGUIDs returns the cached account GUIDs under the book root,
// calling load on a miss or after expiry.
func (c *Cache) AccountGUIDs(book string, load func() ([]string, error)) ([]string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	e := c.entry(book)
	if !e.accountsSet.IsZero() && c.now().Sub(e.accountsSet) < c.ttl {
		return e.accountGUIDs, nil
	}
	res, err := load()
	if err != nil {
		return nil, err
	}
	e.accountGUIDs = res
	e.accountsSet = c.now()
	return res, nil
}

// Invalidate drops all cached values for the book. Must be called when
// the book root changes.
func (c *Cache) Invalidate(book string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.books, book)
}

func (c *Cache) entry(book string) *entry {
	e, ok := c.books[book]
	if !ok {
		e = &entry{}
		c.books[book] = e
	}
	return e
}
