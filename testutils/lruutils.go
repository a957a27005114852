// Package testutils holds behavioural checks shared by the LRU implementations.
package testutils

import (
	"testing"
)

// LRUCache is the subset of simplelru.LRUCache exercised by these checks,
// declared here so that simplelru's own tests can use the package.
type LRUCache interface {
	Add(key, value int) bool
	Get(key int) (value int, ok bool)
	Contains(key int) (ok bool)
	Peek(key int) (value int, ok bool)
	RemoveOldest() (int, int, bool)
	GetOldest() (int, int, bool)
	Keys() []int
	Len() int
	Purge()
}

// Verifier is implemented by caches that can check their own invariants.
type Verifier interface {
	Verify() error
}

// MustVerify fails the test if v reports a broken invariant.
func MustVerify(t testing.TB, v Verifier) {
	t.Helper()
	if err := v.Verify(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func BasicTest(t *testing.T, l LRUCache, capacity int, evictCounter *int) {
	// add twice as much the capacity to check if eviction occurs
	for i := 0; i < 2*capacity; i++ {
		l.Add(i, i)
	}

	if l.Len() != capacity {
		t.Fatalf("bad len: %v", l.Len())
	}

	// half of them should be evicted to make room for the incoming ones
	if *evictCounter != capacity {
		t.Fatalf("bad evict count: %v", *evictCounter)
	}

	// cache should contain only the keys from capacity..2*capacity, anything before
	// that should have been evicted
	for i, k := range l.Keys() {
		if v, ok := l.Get(k); !ok || v != k || v != i+capacity {
			t.Fatalf("bad key: %v", k)
		}
	}

	for i := 0; i < capacity; i++ {
		if _, ok := l.Get(i); ok {
			t.Fatalf("should be evicted")
		}
	}

	for i := capacity; i < 2*capacity; i++ {
		if _, ok := l.Get(i); !ok {
			t.Fatalf("should not be evicted")
		}
	}

	// this makes this item the most recently accessed; moved to the front
	l.Get(capacity)

	// Keys - returns items from oldest to newest.
	keys := l.Keys()
	if keys[len(keys)-1] != capacity {
		t.Fatalf("expected %v to be newest, got keys %v", capacity, keys)
	}
	for i, k := range keys[:len(keys)-1] {
		if k != i+capacity+1 {
			t.Fatalf("out of order key: %v %v", i, k)
		}
	}

	l.Purge()
	if l.Len() != 0 {
		t.Fatalf("bad len: %v", l.Len())
	}

	// try to get the random item
	if _, ok := l.Get(capacity); ok {
		t.Fatalf("should contain nothing")
	}
}

func GetOldestRemoveOldestTest(t *testing.T, l LRUCache, capacity int) {
	if _, _, ok := l.RemoveOldest(); ok {
		t.Fatalf("empty cache should have nothing to remove")
	}
	if _, _, ok := l.GetOldest(); ok {
		t.Fatalf("empty cache should have no oldest entry")
	}

	// add twice as much the capacity
	for i := 0; i < 2*capacity; i++ {
		l.Add(i, i)
	}

	k, _, ok := l.GetOldest()
	if !ok {
		t.Fatalf("missing")
	}
	if k != capacity {
		t.Fatalf("bad: %v", k)
	}

	k, _, ok = l.RemoveOldest()
	if !ok {
		t.Fatalf("missing")
	}
	if k != capacity {
		t.Fatalf("bad: %v", k)
	}

	k, _, ok = l.RemoveOldest()
	if !ok {
		t.Fatalf("missing")
	}
	if k != capacity+1 {
		t.Fatalf("bad: %v", k)
	}
}

func AddTest(t *testing.T, l LRUCache, capacity int, evictCounter *int) {
	for i := 0; i < capacity; i++ {
		if l.Add(i, i) == true || *evictCounter != 0 {
			t.Errorf("should not have an eviction")
		}
	}
	if l.Add(capacity, capacity) == false || *evictCounter != 1 {
		t.Errorf("should have an eviction")
	}
}

// KeepFirstValueTest checks that re-adding a key refreshes its position but
// keeps the value it was first stored with.
func KeepFirstValueTest(t *testing.T, l LRUCache, capacity int) {
	for i := 0; i < capacity; i++ {
		l.Add(i, i)
	}

	if l.Add(0, 1000) {
		t.Errorf("re-adding a present key must not evict")
	}
	if v, ok := l.Peek(0); !ok || v != 0 {
		t.Errorf("value of 0 should stay 0: %v, %v", v, ok)
	}

	if capacity < 2 {
		return
	}

	// 0 is now the newest, so 1 goes first
	l.Add(capacity, capacity)
	if !l.Contains(0) {
		t.Errorf("re-adding should have refreshed recent-ness of 0")
	}
	if l.Contains(1) {
		t.Errorf("1 should have been evicted")
	}
}

func ContainsTest(t *testing.T, l LRUCache, capacity int) {
	for i := 0; i < capacity; i++ {
		l.Add(i, i)
	}

	// contains should not update the recent-ness so this item will remain the oldest
	if !l.Contains(0) {
		t.Errorf("0 should be contained")
	}

	// oldest (0) should have been evicted
	l.Add(capacity, capacity)
	if l.Contains(0) {
		t.Errorf("Contains should not have updated recent-ness of 0")
	}
}

func PeekTest(t *testing.T, l LRUCache, capacity int) {
	for i := 0; i < capacity; i++ {
		l.Add(i, i)
	}

	if v, ok := l.Peek(0); !ok || v != 0 {
		t.Errorf("0 should be set to 0: %v, %v", v, ok)
	}

	l.Add(capacity, capacity)
	if l.Contains(0) {
		t.Errorf("should have been removed to make room for the new item")
	}
}
