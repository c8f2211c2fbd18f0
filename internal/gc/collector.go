// Package gc implements the generational mark-and-sweep collector of
// spec §4.10: two generations (young, old), tenuring, a mark phase driven
// by engine-supplied roots, and a sweep phase that runs object
// finalizers and nulls observing weak references.
package gc

import (
	"stackvm/internal/heap"
	"stackvm/internal/weakref"
)

// defaultYoungThreshold and defaultTenureThreshold match spec §4.10's
// stated defaults (100 young objects before a minor collection, 4
// survived collections before promotion to the old generation).
const (
	defaultYoungThreshold  = 100
	defaultTenureThreshold = 4
)

// Collector owns no storage itself — it operates over an Arena and a
// WeakRef Table supplied at construction, the way the teacher's
// MemoryModule wrapped (rather than owned) the OS process table it
// inspected.
type Collector struct {
	arena *heap.Arena
	weak  *weakref.Table

	YoungThreshold  int
	TenureThreshold int

	youngCount  int
	collections int
	minorRuns   int
	majorRuns   int
	finalized   int
}

func NewCollector(arena *heap.Arena, weak *weakref.Table) *Collector {
	return &Collector{
		arena:           arena,
		weak:            weak,
		YoungThreshold:  defaultYoungThreshold,
		TenureThreshold: defaultTenureThreshold,
	}
}

// RecordAllocation is called once per heap allocation so the collector
// knows when the young generation has crossed its threshold. It does not
// itself sweep — see the §9 open question this resolves: a minor
// collection must never run without roots marked first, so allocation
// only ever requests a collection through the engine, which always marks
// before sweeping (ShouldCollectYoung + Mark + MinorCollect, in that
// order, never MinorCollect alone).
func (c *Collector) RecordAllocation() {
	c.youngCount++
}

// ShouldCollectYoung reports whether the young generation has exceeded
// its threshold and a minor collection is due.
func (c *Collector) ShouldCollectYoung() bool {
	return c.youngCount > c.YoungThreshold
}

// Mark walks from roots through the object graph, flipping each visited
// object's mark bit exactly once (spec §4.10: "already-marked objects are
// not re-visited"). Composite objects propagate through Children().
func (c *Collector) Mark(roots []heap.Value) {
	var visit func(v heap.Value)
	visit = func(v heap.Value) {
		if !v.IsHeap() {
			return
		}
		obj, ok := c.arena.Get(v.H)
		if !ok {
			return
		}
		hdr := obj.Hdr()
		if hdr.Marked {
			return
		}
		hdr.Marked = true
		for _, child := range obj.Children() {
			visit(child)
		}
	}
	for _, r := range roots {
		visit(r)
	}
}

// finalize releases an object's storage, nulls every WeakRef observing
// it, and frees its arena slot. Per spec §4.10, order among finalized
// siblings in one sweep is unspecified and no finalizer may observe
// another finalized object in the same sweep — this implementation takes
// the observer ids, nulls them in the weak table, then frees the slot, and
// none of these steps reads another heap object, so that guarantee holds
// trivially (finalization never re-enters the arena).
func (c *Collector) finalize(h heap.Handle, obj heap.Object) {
	observers := obj.Hdr().TakeObservers()
	c.weak.InvalidateAll(observers)
	c.arena.Free(h)
	c.finalized++
}

// MinorCollect sweeps the young generation: unmarked objects are
// finalized and freed, marked survivors have their tenure counter
// incremented and are promoted to the old generation once it exceeds
// TenureThreshold, otherwise their mark bit is cleared and they remain
// young (spec §4.10). A promoted object keeps its mark bit, so the major
// sweep that follows in FullCollect keeps it and clears the bit there.
//
// Callers MUST have run Mark from the full root set immediately before
// calling this — this is the fix for spec §9's flagged hazard
// ("allocation-time triggering of the minor sweep in isolation... would
// free everything"). This function does not mark; it only sweeps.
func (c *Collector) MinorCollect() {
	var toPromote []heap.Handle
	var toFree []struct {
		h   heap.Handle
		obj heap.Object
	}
	c.arena.Walk(func(h heap.Handle, obj heap.Object) {
		hdr := obj.Hdr()
		if hdr.Generation != heap.Young {
			return
		}
		if !hdr.Marked {
			toFree = append(toFree, struct {
				h   heap.Handle
				obj heap.Object
			}{h, obj})
			return
		}
		hdr.Tenure++
		if hdr.Tenure > c.TenureThreshold {
			toPromote = append(toPromote, h)
		} else {
			hdr.Marked = false
		}
	})
	for _, f := range toFree {
		c.finalize(f.h, f.obj)
	}
	for _, h := range toPromote {
		if obj, ok := c.arena.Get(h); ok {
			obj.Hdr().Generation = heap.Old
		}
	}
	c.youngCount = 0
	c.minorRuns++
}

// MajorCollect sweeps the old generation once: unmarked → finalize and
// free; marked → clear the mark bit and keep (spec §4.10).
func (c *Collector) MajorCollect() {
	var toFree []struct {
		h   heap.Handle
		obj heap.Object
	}
	c.arena.Walk(func(h heap.Handle, obj heap.Object) {
		hdr := obj.Hdr()
		if hdr.Generation != heap.Old {
			return
		}
		if !hdr.Marked {
			toFree = append(toFree, struct {
				h   heap.Handle
				obj heap.Object
			}{h, obj})
			return
		}
		hdr.Marked = false
	})
	for _, f := range toFree {
		c.finalize(f.h, f.obj)
	}
	c.majorRuns++
}

// FullCollect runs the full sequence spec §4.10 prescribes for
// GC_COLLECT: mark roots, minor collect, major collect, bump the
// collection counter.
func (c *Collector) FullCollect(roots []heap.Value) {
	c.Mark(roots)
	c.MinorCollect()
	c.MajorCollect()
	c.collections++
}

// CollectYoungIfDue marks from roots and runs a minor collection only if
// the young generation has crossed its threshold. This is the
// allocation-time entry point the engine calls after every heap
// allocation; it always marks before it sweeps, closing the hazard
// flagged in spec §9. The old generation is not swept here; its mark bits
// are cleared afterwards so the next Mark traverses it again.
func (c *Collector) CollectYoungIfDue(roots []heap.Value) {
	if !c.ShouldCollectYoung() {
		return
	}
	c.Mark(roots)
	c.MinorCollect()
	c.arena.Walk(func(_ heap.Handle, obj heap.Object) {
		if hdr := obj.Hdr(); hdr.Generation == heap.Old {
			hdr.Marked = false
		}
	})
}
