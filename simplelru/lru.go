package simplelru

import (
	"errors"
	"fmt"

	"github.com/venkatsvpr/lrucache/internal"
)

// MaxSize is the largest size an LRU accepts.
const MaxSize = internal.MaxEntries

// ErrInvalidCapacity is returned when a size outside 1..MaxSize is requested.
var ErrInvalidCapacity = errors.New("must provide a positive size no larger than MaxSize")

// ValidSize reports whether size is accepted by NewLRU and Resize.
func ValidSize(size int) bool {
	return size > 0 && int64(size) <= MaxSize
}

// EvictCallback is used to get a callback when a cache entry is evicted
type EvictCallback[K comparable, V any] func(key K, value V)

// LRU implements a non-thread safe fixed size LRU cache.
//
// Adding a key that is already present only refreshes its position; the
// stored value is kept.
type LRU[K comparable, V any] struct {
	size      int
	evictList *internal.RecencyList[K, V]
	items     map[K]internal.Handle
	onEvict   EvictCallback[K, V]
}

// NewLRU constructs an LRU of the given size
func NewLRU[K comparable, V any](size int, onEvict EvictCallback[K, V]) (*LRU[K, V], error) {
	if !ValidSize(size) {
		return nil, ErrInvalidCapacity
	}
	c := &LRU[K, V]{
		size:      size,
		evictList: internal.NewRecencyList[K, V](size),
		items:     make(map[K]internal.Handle, internal.SizeHint(size)),
		onEvict:   onEvict,
	}
	return c, nil
}

// Purge clears the cache completely. The evict callback is not invoked.
func (c *LRU[K, V]) Purge() {
	c.evictList.Init(c.size)
	c.items = make(map[K]internal.Handle, internal.SizeHint(c.size))
}

// Add adds a value to the cache. Returns true if an eviction occurred.
func (c *LRU[K, V]) Add(key K, value V) (evicted bool) {
	// Check for existing item
	if h, ok := c.items[key]; ok {
		c.evictList.MoveToHead(h)
		return false
	}

	// Make room before linking the new entry
	if c.evictList.Len() >= c.size {
		c.removeOldest()
		evicted = true
	}

	c.items[key] = c.evictList.PushHead(key, value)
	return evicted
}

// Get looks up a key's value from the cache.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	if h, found := c.items[key]; found {
		c.evictList.MoveToHead(h)
		return c.evictList.Value(h), true
	}
	return
}

// Contains checks if a key is in the cache, without updating the recent-ness.
func (c *LRU[K, V]) Contains(key K) (ok bool) {
	_, ok = c.items[key]
	return ok
}

// Peek returns the key value (or undefined if not found) without updating
// the "recently used"-ness of the key.
func (c *LRU[K, V]) Peek(key K) (value V, ok bool) {
	if h, found := c.items[key]; found {
		return c.evictList.Value(h), true
	}
	return
}

// RemoveOldest removes the oldest item from the cache.
func (c *LRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	if c.evictList.Tail() == internal.None {
		return
	}
	return c.removeOldest()
}

// GetOldest returns the oldest entry
func (c *LRU[K, V]) GetOldest() (key K, value V, ok bool) {
	if h := c.evictList.Tail(); h != internal.None {
		return c.evictList.Key(h), c.evictList.Value(h), true
	}
	return
}

// Keys returns a slice of the keys in the cache, from oldest to newest.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.items))
	for h := c.evictList.Tail(); h != internal.None; h = c.evictList.Prev(h) {
		keys = append(keys, c.evictList.Key(h))
	}
	return keys
}

// Values returns a slice of the values in the cache, from oldest to newest.
func (c *LRU[K, V]) Values() []V {
	values := make([]V, 0, len(c.items))
	for h := c.evictList.Tail(); h != internal.None; h = c.evictList.Prev(h) {
		values = append(values, c.evictList.Value(h))
	}
	return values
}

// Len returns the number of items in the cache.
func (c *LRU[K, V]) Len() int {
	return c.evictList.Len()
}

// Cap returns the configured size of the cache.
func (c *LRU[K, V]) Cap() int {
	return c.size
}

// Overflow reports how many entries Resize(size) would evict.
func (c *LRU[K, V]) Overflow(size int) int {
	if diff := c.evictList.Len() - size; diff > 0 {
		return diff
	}
	return 0
}

// Resize changes the cache size, evicting from the tail until the cache
// fits. A size outside 1..MaxSize is ignored.
func (c *LRU[K, V]) Resize(size int) (evicted int) {
	if !ValidSize(size) {
		return 0
	}
	diff := c.Overflow(size)
	for i := 0; i < diff; i++ {
		c.removeOldest()
	}
	c.size = size
	return diff
}

// Verify checks that the index and the recency list describe the same set of
// entries and that the cache respects its size.
func (c *LRU[K, V]) Verify() error {
	if err := c.evictList.Verify(); err != nil {
		return err
	}
	if len(c.items) != c.evictList.Len() {
		return fmt.Errorf("%w: index has %d keys, list has %d entries",
			internal.ErrCorrupted, len(c.items), c.evictList.Len())
	}
	for h := c.evictList.Head(); h != internal.None; h = c.evictList.Next(h) {
		key := c.evictList.Key(h)
		if got, ok := c.items[key]; !ok || got != h {
			return fmt.Errorf("%w: key %v indexed at %d, linked at %d",
				internal.ErrCorrupted, key, got, h)
		}
	}
	if c.evictList.Len() > c.size {
		return fmt.Errorf("%w: %d entries exceed size %d",
			internal.ErrCorrupted, c.evictList.Len(), c.size)
	}
	return nil
}

// removeOldest evicts the tail entry and drops it from the index.
func (c *LRU[K, V]) removeOldest() (key K, value V, ok bool) {
	key, value, ok = c.evictList.EvictTail()
	if !ok {
		return
	}
	delete(c.items, key)
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
	return
}
