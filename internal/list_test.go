package internal

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func (l *RecencyList[K, V]) wantOrder(t *testing.T, want []K) {
	t.Helper()
	if err := l.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	got := make([]K, 0, l.Len())
	for h := l.Head(); h != None; h = l.Next(h) {
		got = append(got, l.Key(h))
	}
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wrong order got: %v, want: %v", got, want)
	}
}

func TestRecencyList_InsertAtHead(t *testing.T) {
	l := NewRecencyList[string, int](4)
	l.wantOrder(t, nil)

	a := l.PushHead("a", 1)
	if l.Head() != a || l.Tail() != a {
		t.Fatalf("sole entry should be head and tail")
	}
	l.wantOrder(t, []string{"a"})

	l.PushHead("b", 2)
	l.PushHead("c", 3)
	l.wantOrder(t, []string{"c", "b", "a"})

	if l.Prev(l.Head()) != None || l.Next(l.Tail()) != None {
		t.Fatalf("head.prev and tail.next must be empty")
	}
}

func TestRecencyList_MoveToHead(t *testing.T) {
	l := NewRecencyList[string, int](4)
	a := l.PushHead("a", 1)
	b := l.PushHead("b", 2)
	c := l.PushHead("c", 3)
	d := l.PushHead("d", 4)
	l.wantOrder(t, []string{"d", "c", "b", "a"})

	// head
	l.MoveToHead(d)
	l.MoveToHead(d)
	l.wantOrder(t, []string{"d", "c", "b", "a"})

	// tail
	l.MoveToHead(a)
	l.wantOrder(t, []string{"a", "d", "c", "b"})
	if l.Tail() != b {
		t.Fatalf("tail should be b, got %v", l.Key(l.Tail()))
	}

	// interior
	l.MoveToHead(c)
	l.wantOrder(t, []string{"c", "a", "d", "b"})

	// sole entry
	s := NewRecencyList[string, int](1)
	x := s.PushHead("x", 0)
	s.MoveToHead(x)
	s.wantOrder(t, []string{"x"})
}

func TestRecencyList_EvictTail(t *testing.T) {
	l := NewRecencyList[string, int](2)
	if _, _, ok := l.EvictTail(); ok {
		t.Fatalf("empty list should not evict")
	}

	l.PushHead("a", 1)
	l.PushHead("b", 2)

	k, v, ok := l.EvictTail()
	if !ok || k != "a" || v != 1 {
		t.Fatalf("bad eviction: %v %v %v", k, v, ok)
	}
	l.wantOrder(t, []string{"b"})
	if l.Next(l.Head()) != None {
		t.Fatalf("survivor still links to the evicted entry")
	}

	k, _, ok = l.EvictTail()
	if !ok || k != "b" {
		t.Fatalf("bad eviction: %v %v", k, ok)
	}
	if l.Head() != None || l.Tail() != None || l.Len() != 0 {
		t.Fatalf("single entry list should become empty")
	}
	l.wantOrder(t, nil)
}

func TestRecencyList_ReusesSlots(t *testing.T) {
	l := NewRecencyList[int, int](2)
	first := l.PushHead(1, 1)
	l.PushHead(2, 2)
	l.EvictTail()

	h := l.PushHead(3, 3)
	if h != first {
		t.Errorf("expected freed slot %d to be reused, got %d", first, h)
	}
	if l.Key(h) != 3 || l.Value(h) != 3 {
		t.Errorf("recycled slot holds stale data")
	}
	l.wantOrder(t, []int{3, 2})
}

func TestRecencyList_Init(t *testing.T) {
	l := NewRecencyList[int, int](0)
	for i := 0; i < 10; i++ {
		l.PushHead(i, i)
	}
	l.Init(-1)
	l.wantOrder(t, nil)
	l.PushHead(42, 42)
	l.wantOrder(t, []int{42})
}

func TestRecencyList_VerifyDetectsCorruption(t *testing.T) {
	l := NewRecencyList[int, int](3)
	l.PushHead(1, 1)
	b := l.PushHead(2, 2)
	l.PushHead(3, 3)

	l.entries[b].prev = None
	if err := l.Verify(); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("expected corruption, got %v", err)
	}
}

func TestRecencyList_InitHint(t *testing.T) {
	for _, hint := range []int{-1, 0, 16, maxPrealloc, 1 << 30, math.MaxInt} {
		l := NewRecencyList[int, int](hint)
		if c := cap(l.entries); c > maxPrealloc+1 {
			t.Errorf("hint %d reserved %d slots", hint, c)
		}
		for i := 0; i < maxPrealloc+10; i++ {
			l.PushHead(i, i)
		}
		if l.Len() != maxPrealloc+10 {
			t.Errorf("hint %d: bad len %d", hint, l.Len())
		}
		if err := l.Verify(); err != nil {
			t.Errorf("hint %d: %v", hint, err)
		}
	}
}

func TestRecencyList_HandleBound(t *testing.T) {
	for _, tc := range []struct {
		index int64
		want  Handle
		ok    bool
	}{
		{0, None, false},
		{1, 1, true},
		{MaxEntries, Handle(MaxEntries), true},
		{MaxEntries + 1, None, false},
		{math.MaxInt64, None, false},
	} {
		got, ok := handleAt(tc.index)
		if got != tc.want || ok != tc.ok {
			t.Errorf("handleAt(%d) = %d, %v; want %d, %v", tc.index, got, ok, tc.want, tc.ok)
		}
	}
}
