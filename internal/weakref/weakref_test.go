package weakref

import (
	"testing"

	"stackvm/internal/heap"
)

func TestGetReturnsTargetWhileValid(t *testing.T) {
	tab := NewTable()
	target := heap.Handle{Kind: heap.KindArray, Index: 3}
	id := tab.New(target, true)

	got, ok := tab.Get(id)
	if !ok || got != target {
		t.Errorf("expected to resolve %+v, got %+v (ok=%v)", target, got, ok)
	}
}

func TestInvalidateNullsTheReference(t *testing.T) {
	tab := NewTable()
	id := tab.New(heap.Handle{Kind: heap.KindArray, Index: 0}, true)
	tab.Invalidate(id)

	if _, ok := tab.Get(id); ok {
		t.Errorf("invalidated weak ref should no longer resolve")
	}
}

func TestInvalidateAllNullsOnlyListedIDs(t *testing.T) {
	tab := NewTable()
	a := tab.New(heap.Handle{Kind: heap.KindArray, Index: 0}, true)
	b := tab.New(heap.Handle{Kind: heap.KindMap, Index: 0}, true)

	tab.InvalidateAll([]int{a})

	if _, ok := tab.Get(a); ok {
		t.Errorf("id %d should have been invalidated", a)
	}
	if _, ok := tab.Get(b); !ok {
		t.Errorf("id %d should still be valid", b)
	}
}

func TestGetUnknownIDFails(t *testing.T) {
	tab := NewTable()
	if _, ok := tab.Get(99); ok {
		t.Errorf("expected an unknown id to fail to resolve")
	}
}
