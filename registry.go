package lru

import (
	"sync"
	"sync/atomic"
)

// Registry lazily creates one Cache and hands the same instance to every
// caller. The zero value is ready to use, typically as a package level
// variable:
//
//	var sessions lru.Registry[string, []byte]
//
//	c, err := sessions.GetOrCreate(1024)
//
// Code that wants an independent cache should call New instead.
type Registry[K comparable, V any] struct {
	cache atomic.Pointer[Cache[K, V]]
	mu    sync.Mutex
}

// GetOrCreate returns the shared cache, creating it with defaultCapacity and
// opts on first use. Concurrent first callers wait for a single creation.
// Once the cache exists the arguments are ignored. A failed creation is not
// remembered, so a later call may succeed.
func (r *Registry[K, V]) GetOrCreate(defaultCapacity int, opts ...Option) (*Cache[K, V], error) {
	if c := r.cache.Load(); c != nil {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.cache.Load(); c != nil {
		return c, nil
	}
	c, err := New[K, V](defaultCapacity, opts...)
	if err != nil {
		return nil, err
	}
	r.cache.Store(c)
	return c, nil
}

// Release resets the shared cache and forgets it; the next GetOrCreate
// builds a new one. Holders of the old instance keep a valid, empty cache.
// Release reports whether there was an instance to drop.
func (r *Registry[K, V]) Release() bool {
	r.mu.Lock()
	c := r.cache.Swap(nil)
	r.mu.Unlock()

	if c == nil {
		return false
	}
	c.Reset()
	return true
}
