package solver

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/crossplay/backend/pkg/grid"
)

// PlacementCache memoizes the (word, row, col, direction) feasibility
// predicate — does the word fit geometrically and agree with every
// fixed letter already on the grid — across a solve and, per spec.md
// §5, across grid-mutation attempts until C5 invalidates it. It is an
// LRU bounded by Limit entries, guarded by a single coarse lock as
// spec.md §4.4.6 prescribes for the read-mostly shared cache.
type PlacementCache struct {
	mu    sync.Mutex
	limit int
	ll    *list.List
	index map[string]*list.Element
}

type cacheEntry struct {
	key   string
	valid bool
}

// NewPlacementCache builds an empty cache bounded to limit entries.
func NewPlacementCache(limit int) *PlacementCache {
	if limit <= 0 {
		limit = 1 << 20
	}
	return &PlacementCache{limit: limit, ll: list.New(), index: make(map[string]*list.Element)}
}

func cacheKey(word string, row, col int, dir grid.Direction) string {
	return fmt.Sprintf("%s:%d:%d:%d", word, row, col, dir)
}

// Get returns the memoized feasibility verdict and whether it was
// present.
func (c *PlacementCache) Get(word string, row, col int, dir grid.Direction) (valid, ok bool) {
	key := cacheKey(word, row, col, dir)
	c.mu.Lock()
	defer c.mu.Unlock()
	el, found := c.index[key]
	if !found {
		return false, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).valid, true
}

// Put memoizes a feasibility verdict, evicting the least-recently-used
// entry if the cache is at capacity.
func (c *PlacementCache) Put(word string, row, col int, dir grid.Direction, valid bool) {
	key := cacheKey(word, row, col, dir)
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, found := c.index[key]; found {
		el.Value.(*cacheEntry).valid = valid
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&cacheEntry{key: key, valid: valid})
	c.index[key] = el
	if c.ll.Len() > c.limit {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.index, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Reset invalidates every entry. C5 calls this between grid-mutation
// attempts per spec.md §4.4.5.
func (c *PlacementCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll = list.New()
	c.index = make(map[string]*list.Element)
}
