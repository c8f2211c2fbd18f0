// Package weakref implements the weak-reference table of spec §3/§4.9: an
// append-only list of observers that the collector nulls when their target
// is finalized, and which otherwise survive until the VM tears down
// (spec §9, "weak references survive their VM").
package weakref

import "stackvm/internal/heap"

// Ref is a single weak reference slot.
type Ref struct {
	Target heap.Handle
	Valid  bool // false once the target is finalized, or if created with no target
}

// Table owns every WeakRef created by WEAK_REF_NEW for the lifetime of one
// VM instance.
type Table struct {
	refs []Ref
}

func NewTable() *Table { return &Table{} }

// New records a weak reference to target (hasTarget false for a dead
// weak ref created over a non-heap value, spec §9 open question: this
// implementation treats that as well-defined, not an error) and returns
// its opaque id.
func (t *Table) New(target heap.Handle, hasTarget bool) int {
	t.refs = append(t.refs, Ref{Target: target, Valid: hasTarget})
	return len(t.refs) - 1
}

// Get resolves id to its target handle; ok is false if the id is unknown,
// was created with no target, or the target has since been finalized.
func (t *Table) Get(id int) (heap.Handle, bool) {
	if id < 0 || id >= len(t.refs) {
		return heap.Handle{}, false
	}
	r := t.refs[id]
	return r.Target, r.Valid
}

// Invalidate nulls the weak ref at id, called by the collector when its
// target is finalized.
func (t *Table) Invalidate(id int) {
	if id < 0 || id >= len(t.refs) {
		return
	}
	t.refs[id].Valid = false
}

// InvalidateAll nulls every id in ids; used once per finalized object.
func (t *Table) InvalidateAll(ids []int) {
	for _, id := range ids {
		t.Invalidate(id)
	}
}

// Len reports how many weak refs have ever been created, for diagnostics.
func (t *Table) Len() int { return len(t.refs) }
