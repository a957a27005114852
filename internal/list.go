// Package internal holds the arena backed recency list shared by the LRU
// implementations.
package internal

import (
	"errors"
	"fmt"
	"math"
)

// Handle addresses an entry inside a RecencyList arena. The zero Handle
// never refers to a live entry.
type Handle uint32

// None is the empty link.
const None Handle = 0

// MaxEntries is the largest number of entries a RecencyList can address.
// Slot 0 is reserved, so the last usable Handle is MaxEntries.
const MaxEntries int64 = math.MaxUint32 - 1

// maxPrealloc bounds the arena reserved up front; larger lists grow on demand.
const maxPrealloc = 1024

// ErrArenaFull is the panic value of Alloc once every Handle is in use.
var ErrArenaFull = errors.New("recency list arena exhausted")

// SizeHint clamps a requested size to what is worth reserving up front.
func SizeHint(n int) int {
	return max(0, min(n, maxPrealloc))
}

// Entry is one key/value record plus its position links.
type Entry[K comparable, V any] struct {
	key   K
	value V
	prev  Handle
	next  Handle
	live  bool
}

// RecencyList is an intrusive doubly linked list ordering entries from most
// recently used (head) to least recently used (tail). Entries live in a slice
// and link to each other by Handle, so relinking is O(1) without pointer
// cycles. Slot 0 of the arena is reserved so that None is never a valid entry.
//
// RecencyList is not safe for concurrent use.
type RecencyList[K comparable, V any] struct {
	entries []Entry[K, V]
	free    []Handle
	head    Handle
	tail    Handle
	len     int
}

// NewRecencyList returns an empty list with room for hint entries.
func NewRecencyList[K comparable, V any](hint int) *RecencyList[K, V] {
	l := &RecencyList[K, V]{}
	l.Init(hint)
	return l
}

// Init drops every entry and releases the arena. At most maxPrealloc slots
// are reserved whatever the hint.
func (l *RecencyList[K, V]) Init(hint int) {
	l.entries = make([]Entry[K, V], 1, SizeHint(hint)+1)
	l.free = nil
	l.head, l.tail = None, None
	l.len = 0
}

// Len returns the number of linked entries.
func (l *RecencyList[K, V]) Len() int { return l.len }

// Head returns the most recently used entry, or None.
func (l *RecencyList[K, V]) Head() Handle { return l.head }

// Tail returns the least recently used entry, or None.
func (l *RecencyList[K, V]) Tail() Handle { return l.tail }

// Next returns the entry following h towards the tail.
func (l *RecencyList[K, V]) Next(h Handle) Handle { return l.entries[h].next }

// Prev returns the entry preceding h towards the head.
func (l *RecencyList[K, V]) Prev(h Handle) Handle { return l.entries[h].prev }

// Key returns the key stored at h.
func (l *RecencyList[K, V]) Key(h Handle) K { return l.entries[h].key }

// Value returns the value stored at h.
func (l *RecencyList[K, V]) Value(h Handle) V { return l.entries[h].value }

// Alloc stores key and value in a detached entry. The entry is not part of
// the ordering until it is passed to InsertAtHead.
func (l *RecencyList[K, V]) Alloc(key K, value V) Handle {
	e := Entry[K, V]{key: key, value: value, live: true}
	if n := len(l.free); n > 0 {
		h := l.free[n-1]
		l.free = l.free[:n-1]
		l.entries[h] = e
		return h
	}
	h, ok := handleAt(int64(len(l.entries)))
	if !ok {
		panic(ErrArenaFull)
	}
	l.entries = append(l.entries, e)
	return h
}

// handleAt converts an arena index to a Handle, refusing indexes the Handle
// type cannot hold.
func handleAt(i int64) (Handle, bool) {
	if i <= 0 || i > MaxEntries {
		return None, false
	}
	return Handle(i), true
}

// InsertAtHead links a detached entry as the new head.
func (l *RecencyList[K, V]) InsertAtHead(h Handle) {
	e := &l.entries[h]
	e.prev = None
	e.next = l.head
	if l.head == None {
		l.tail = h
	} else {
		l.entries[l.head].prev = h
	}
	l.head = h
	l.len++
}

// PushHead allocates an entry and links it as the new head.
func (l *RecencyList[K, V]) PushHead(key K, value V) Handle {
	h := l.Alloc(key, value)
	l.InsertAtHead(h)
	return h
}

// MoveToHead marks h as the most recently used entry.
func (l *RecencyList[K, V]) MoveToHead(h Handle) {
	if h == l.head {
		return
	}
	l.unlink(h)
	l.InsertAtHead(h)
}

// EvictTail removes the least recently used entry and returns its contents.
// The slot is cleared and recycled, so no remaining entry links to it.
func (l *RecencyList[K, V]) EvictTail() (key K, value V, ok bool) {
	h := l.tail
	if h == None {
		return
	}
	l.unlink(h)
	e := l.entries[h]
	l.entries[h] = Entry[K, V]{}
	l.free = append(l.free, h)
	return e.key, e.value, true
}

// unlink detaches h from its neighbours. Covers head, tail, interior and
// sole entry positions.
func (l *RecencyList[K, V]) unlink(h Handle) {
	e := &l.entries[h]
	if e.prev != None {
		l.entries[e.prev].next = e.next
	} else {
		l.head = e.next
	}
	if e.next != None {
		l.entries[e.next].prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = None, None
	l.len--
}

// ErrCorrupted is wrapped by every error returned from Verify.
var ErrCorrupted = errors.New("recency list corrupted")

// Verify walks the list and checks its structural invariants.
func (l *RecencyList[K, V]) Verify() error {
	if l.head == None || l.tail == None {
		if l.head != l.tail || l.len != 0 {
			return fmt.Errorf("%w: head=%d tail=%d len=%d", ErrCorrupted, l.head, l.tail, l.len)
		}
		return nil
	}
	if p := l.entries[l.head].prev; p != None {
		return fmt.Errorf("%w: head %d has prev %d", ErrCorrupted, l.head, p)
	}
	if n := l.entries[l.tail].next; n != None {
		return fmt.Errorf("%w: tail %d has next %d", ErrCorrupted, l.tail, n)
	}

	count := 0
	prev := None
	for h := l.head; h != None; h = l.entries[h].next {
		e := &l.entries[h]
		if !e.live {
			return fmt.Errorf("%w: released slot %d still linked", ErrCorrupted, h)
		}
		if e.prev != prev {
			return fmt.Errorf("%w: %d.prev=%d, want %d", ErrCorrupted, h, e.prev, prev)
		}
		prev = h
		count++
		if count > l.len {
			return fmt.Errorf("%w: more than %d entries reachable", ErrCorrupted, l.len)
		}
	}
	if prev != l.tail {
		return fmt.Errorf("%w: walk ended at %d, tail is %d", ErrCorrupted, prev, l.tail)
	}
	if count != l.len {
		return fmt.Errorf("%w: walked %d entries, len is %d", ErrCorrupted, count, l.len)
	}
	return nil
}
