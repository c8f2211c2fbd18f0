// Package heap implements the heap object kinds of the stackvm data model
// (Array, Map, Record, Function, Closure) and the value tag shared between
// the engine's operand stack and heap storage.
//
// Value lives here rather than in a separate package because heap objects
// are composites of Values (array elements, map entries, closure captures)
// and Values that name heap objects carry a Handle into this package's
// arenas — the two are mutually referential. internal/value provides the
// value-level operations (truthiness, equality, rendering) over this type;
// this package owns the shape and the object kinds.
package heap

// Kind discriminates both the active variant of a Value and, for the
// heap-handle variants, which typed arena a Handle indexes into.
type Kind byte

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindArray
	KindMap
	KindRecord
	KindFunction
	KindClosure
	KindWeakRef
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindRecord:
		return "Record"
	case KindFunction:
		return "Function"
	case KindClosure:
		return "Closure"
	case KindWeakRef:
		return "weakref"
	default:
		return "unknown"
	}
}

// Handle is a logical pointer to a heap object: an index into the typed
// arena for its Kind. Spec §9 calls out exactly this shape ("an
// implementation may use indices into per-kind arenas") so that marking
// during GC is an O(1) write to the slot's inline header rather than a
// linear scan of both generations to find the owning object.
type Handle struct {
	Kind  Kind
	Index int32
}

// Value is the tagged union of spec §3: exactly one payload field is
// meaningful, selected by Kind.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	B    bool
	S    string
	H    Handle
}

// IsHeap reports whether v holds a Handle into one of the typed arenas.
func (v Value) IsHeap() bool {
	switch v.Kind {
	case KindArray, KindMap, KindRecord, KindFunction, KindClosure:
		return true
	default:
		return false
	}
}

// Generation tags which generation a heap object currently lives in.
type Generation uint8

const (
	Young Generation = iota
	Old
)

// Header is the inline GC bookkeeping every heap object carries: the mark
// bit, its generation and tenure count, whether the slot is still live
// (vs. freed; freed slots are never reused), and the ids of every WeakRef observing
// this object (nulled by the collector at finalization, spec §3).
type Header struct {
	Live       bool
	Marked     bool
	Generation Generation
	Tenure     int
	Observers  []int
}

// AddObserver records that the WeakRef with the given id now observes the
// object owning this header.
func (h *Header) AddObserver(id int) {
	h.Observers = append(h.Observers, id)
}

// TakeObservers returns and clears the observer list, used by the
// collector at finalization time to null every WeakRef pointing here.
func (h *Header) TakeObservers() []int {
	obs := h.Observers
	h.Observers = nil
	return obs
}
