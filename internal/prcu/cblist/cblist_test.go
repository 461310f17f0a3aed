package cblist

import "testing"

func TestAppendPopFIFO(t *testing.T) {
	var l List

	var order []int
	mk := func(i int) *Head {
		return &Head{Func: func(*Head) { order = append(order, i) }}
	}

	l.Append(mk(1), 10)
	l.Append(mk(2), 20)
	l.Append(mk(3), 30)

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	for i, wantV := range []uint64{10, 20, 30} {
		cb, v, ok := l.Pop()
		if !ok {
			t.Fatalf("Pop() #%d: ok = false", i)
		}
		if v != wantV {
			t.Errorf("Pop() #%d version = %d, want %d", i, v, wantV)
		}
		cb.Func(cb)
	}

	if got := order; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("invocation order = %v, want [1 2 3]", got)
	}

	if !l.Empty() {
		t.Error("Empty() = false after draining all callbacks")
	}
	if _, _, ok := l.Pop(); ok {
		t.Error("Pop() on empty list returned ok = true")
	}
}

func TestPeekVersionDoesNotDequeue(t *testing.T) {
	var l List
	l.Append(&Head{}, 42)

	v, ok := l.PeekVersion()
	if !ok || v != 42 {
		t.Fatalf("PeekVersion() = (%d, %v), want (42, true)", v, ok)
	}
	if l.Len() != 1 {
		t.Errorf("PeekVersion() dequeued: Len() = %d, want 1", l.Len())
	}
}

func TestEmptyListInvariants(t *testing.T) {
	var l List
	if !l.Empty() {
		t.Error("new List is not Empty()")
	}
	if _, ok := l.PeekVersion(); ok {
		t.Error("PeekVersion() on empty list returned ok = true")
	}
}

func TestAppendReportsAllocationFailure(t *testing.T) {
	orig := allocVersionNode
	allocVersionNode = func() (*versionNode, bool) { return nil, false }

	var l List
	ok := l.Append(&Head{}, 7)
	if ok {
		t.Fatal("Append() = true with a failing allocator, want false")
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d after failed Append, want 0", l.Len())
	}
	if !l.Empty() {
		t.Error("Empty() = false after failed Append")
	}
	if _, ok := l.PeekVersion(); ok {
		t.Error("PeekVersion() ok = true after failed Append")
	}

	// The list must remain fully usable once the allocator recovers.
	allocVersionNode = orig
	if ok := l.Append(&Head{}, 8); !ok {
		t.Fatal("Append() after allocator restored = false")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d after recovery, want 1", l.Len())
	}
}

func TestLengthTracksBothChains(t *testing.T) {
	var l List
	for i := range 100 {
		l.Append(&Head{}, uint64(i))
	}
	if l.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", l.Len())
	}
	for i := 100; i > 0; i-- {
		if _, _, ok := l.Pop(); !ok {
			t.Fatalf("Pop() failed with %d remaining", i)
		}
		if l.Len() != i-1 {
			t.Fatalf("Len() = %d, want %d", l.Len(), i-1)
		}
	}
}
