package lru

import (
	"sync"

	"github.com/venkatsvpr/lrucache/internal/logger"
	"github.com/venkatsvpr/lrucache/simplelru"
)

// Cache is a thread-safe fixed size LRU cache.
//
// Every operation, including Get, runs under one mutex because a hit moves
// the entry to the head of the recency list. Evictions are buffered while the
// lock is held and handed to subscribers after it is released, so handlers
// may call back into the cache.
type Cache[K comparable, V any] struct {
	lru       *simplelru.LRU[K, V]
	evicted   []EvictionRecord[K, V]
	publisher *EvictionPublisher[K, V]
	opts      options
	lock      sync.Mutex
}

// New creates an LRU of the given capacity.
func New[K comparable, V any](capacity int, opts ...Option) (*Cache[K, V], error) {
	if !simplelru.ValidSize(capacity) {
		return nil, capacityError(capacity)
	}

	c := &Cache[K, V]{opts: defaultOptions()}
	for _, opt := range opts {
		if err := opt(&c.opts); err != nil {
			return nil, err
		}
	}
	c.initEvictBuffers()
	c.publisher = NewEvictionPublisher[K, V](c.opts.logger)

	var err error
	c.lru, err = simplelru.NewLRU(capacity, c.onEvicted)
	if err != nil {
		return nil, capacityError(capacity)
	}
	return c, nil
}

// NewWithEvict constructs a fixed size cache with the given eviction
// handler already subscribed.
func NewWithEvict[K comparable, V any](capacity int, onEvicted EvictionHandler[K, V], opts ...Option) (*Cache[K, V], error) {
	c, err := New[K, V](capacity, opts...)
	if err != nil {
		return nil, err
	}
	c.Subscribe(onEvicted)
	return c, nil
}

func (c *Cache[K, V]) initEvictBuffers() {
	c.evicted = make([]EvictionRecord[K, V], 0, DefaultEvictedBufferSize)
}

// onEvicted records an evicted entry for delivery once the lock is released.
// Has to be called with lock!
func (c *Cache[K, V]) onEvicted(k K, v V) {
	c.evicted = append(c.evicted, EvictionRecord[K, V]{Key: k, Value: v, EvictedAt: c.opts.now()})
}

// takeEvicted hands over the buffered records. Has to be called with lock!
func (c *Cache[K, V]) takeEvicted() []EvictionRecord[K, V] {
	if len(c.evicted) == 0 {
		return nil
	}
	records := c.evicted
	c.initEvictBuffers()
	return records
}

// publish delivers records outside the critical section.
func (c *Cache[K, V]) publish(records []EvictionRecord[K, V]) {
	if len(records) == 0 {
		return
	}
	if err := c.publisher.PublishAll(records); err != nil {
		c.opts.logger.Warn("eviction delivery incomplete",
			logger.Component("lru"),
			logger.Count(len(records)),
			logger.Error(err),
		)
	}
}

// Get looks up a key's value from the cache and marks it as most recently
// used. It fails with ErrInvalidKey for a nil key and ErrNotFound on a miss.
func (c *Cache[K, V]) Get(key K) (value V, err error) {
	if err = validateKey(key); err != nil {
		return value, err
	}
	c.lock.Lock()
	value, ok := c.lru.Get(key)
	c.lock.Unlock()
	if !ok {
		return value, notFoundError(key)
	}
	return value, nil
}

// Put caches value under key. If key is already cached it only becomes the
// most recently used entry; its stored value is not replaced. If the cache is
// full the least recently used entry is evicted first and its record is
// delivered to subscribers before Put returns.
func (c *Cache[K, V]) Put(key K, value V) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := validateValue(value); err != nil {
		return err
	}

	c.publish(c.add(key, value))
	return nil
}

func (c *Cache[K, V]) add(key K, value V) []EvictionRecord[K, V] {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.lru.Add(key, value) {
		return c.takeEvicted()
	}
	return nil
}

// SetCapacity changes the cache capacity. Shrinking below the number of
// cached entries requires allowEviction; without it the call fails with an
// *EvictionNotAuthorizedError and the cache is left untouched. Evicted
// entries are removed from the tail and each one is published.
func (c *Cache[K, V]) SetCapacity(capacity int, allowEviction bool) error {
	if !simplelru.ValidSize(capacity) {
		return capacityError(capacity)
	}

	records, err := c.resize(capacity, allowEviction)
	if err != nil {
		c.opts.logger.Warn("resize refused",
			logger.Component("lru"),
			logger.Capacity(capacity),
			logger.Count(err.Evictions),
		)
		return err
	}

	if evicted := len(records); evicted > 0 {
		c.opts.logger.Debug("resize evicted entries",
			logger.Component("lru"),
			logger.Capacity(capacity),
			logger.Count(evicted),
		)
	}
	c.publish(records)
	return nil
}

func (c *Cache[K, V]) resize(capacity int, allowEviction bool) ([]EvictionRecord[K, V], *EvictionNotAuthorizedError) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if n := c.lru.Overflow(capacity); n > 0 && !allowEviction {
		return nil, &EvictionNotAuthorizedError{Capacity: capacity, Size: c.lru.Len(), Evictions: n}
	}
	c.lru.Resize(capacity)
	return c.takeEvicted(), nil
}

// Reset empties the cache without notifying subscribers. The capacity is
// kept or restored to the default according to the configured ResetPolicy.
func (c *Cache[K, V]) Reset() {
	dropped, capacity := c.reset()
	c.opts.logger.Debug("cache reset",
		logger.Component("lru"),
		logger.Event("reset"),
		logger.Count(dropped),
		logger.Capacity(capacity),
	)
}

func (c *Cache[K, V]) reset() (dropped, capacity int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	dropped = c.lru.Len()
	capacity = c.lru.Cap()
	if c.opts.resetPolicy == ResetToDefaultCapacity {
		capacity = c.opts.defaultCapacity
	}
	c.lru.Purge()
	c.lru.Resize(capacity)
	c.initEvictBuffers()
	return dropped, capacity
}

// Subscribe registers handler for eviction records.
func (c *Cache[K, V]) Subscribe(handler EvictionHandler[K, V]) SubscriptionToken {
	return c.publisher.Subscribe(handler)
}

// Unsubscribe removes a registration made with Subscribe.
func (c *Cache[K, V]) Unsubscribe(token SubscriptionToken) bool {
	return c.publisher.Unsubscribe(token)
}

// Contains checks if a key is in the cache, without updating the
// recent-ness.
func (c *Cache[K, V]) Contains(key K) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Contains(key)
}

// Peek returns the key value (or undefined if not found) without updating
// the "recently used"-ness of the key.
func (c *Cache[K, V]) Peek(key K) (value V, ok bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Peek(key)
}

// Keys returns a slice of the keys in the cache, from oldest to newest.
func (c *Cache[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Keys()
}

// Len returns the number of items in the cache.
func (c *Cache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Len()
}

// Cap returns the current capacity.
func (c *Cache[K, V]) Cap() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Cap()
}

// Verify checks that the index and the recency list hold the same entries
// and that the size fits the capacity.
func (c *Cache[K, V]) Verify() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Verify()
}
