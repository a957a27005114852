// Package lru provides a bounded, thread-safe LRU cache with eviction
// notifications.
//
// Cache pairs a hash index with an arena backed doubly linked recency list
// (see simplelru), giving O(1) Get, Put and eviction. Get moves the entry to
// the head of the list, so every operation runs under a single mutex.
//
// Put never replaces the value of a key that is already cached: it only
// refreshes the key's position. When a new key arrives at a full cache the
// least recently used entry is evicted and an EvictionRecord is delivered to
// each subscriber, in registration order, after the cache lock is released.
//
// SetCapacity refuses to drop live entries unless eviction is explicitly
// allowed. Reset empties the cache silently.
//
// Registry offers one lazily created, process wide Cache for callers that
// need a shared instance.
package lru
