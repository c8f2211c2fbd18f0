package heap

// Object is the common shape every heap object kind exposes to the
// collector: its inline GC header and the set of Values it transitively
// holds, so marking can walk composites without per-kind switch logic.
type Object interface {
	Hdr() *Header
	Children() []Value
}

func (a *ArrayObj) Hdr() *Header      { return &a.Header }
func (a *ArrayObj) Children() []Value { return a.Elements }

func (m *MapObj) Hdr() *Header { return &m.Header }
func (m *MapObj) Children() []Value {
	out := make([]Value, 0, len(m.Items))
	for _, v := range m.Items {
		out = append(out, v)
	}
	return out
}

func (r *RecordObj) Hdr() *Header { return &r.Header }
func (r *RecordObj) Children() []Value {
	out := make([]Value, 0, len(r.Items))
	for _, v := range r.Items {
		out = append(out, v)
	}
	return out
}

func (f *FunctionObj) Hdr() *Header      { return &f.Header }
func (f *FunctionObj) Children() []Value { return nil }

func (c *ClosureObj) Hdr() *Header { return &c.Header }
func (c *ClosureObj) Children() []Value {
	out := make([]Value, 0, len(c.Captures)+1)
	out = append(out, Value{Kind: KindFunction, H: c.Fn})
	out = append(out, c.Captures...)
	return out
}

// Arena owns every heap object, grouped into one typed, append-only slice
// per Kind. A Handle addresses a slot directly (spec §9: "store the object
// header inline with... the handle"), so lookup and marking are O(1)
// regardless of heap size.
type Arena struct {
	arrays    []*ArrayObj
	maps      []*MapObj
	records   []*RecordObj
	functions []*FunctionObj
	closures  []*ClosureObj
}

func NewArena() *Arena { return &Arena{} }

func (a *Arena) AllocArray(gen Generation) Handle {
	obj := NewArrayObj()
	obj.Generation = gen
	a.arrays = append(a.arrays, obj)
	return Handle{Kind: KindArray, Index: int32(len(a.arrays) - 1)}
}

func (a *Arena) AllocMap(gen Generation) Handle {
	obj := NewMapObj()
	obj.Generation = gen
	a.maps = append(a.maps, obj)
	return Handle{Kind: KindMap, Index: int32(len(a.maps) - 1)}
}

func (a *Arena) AllocRecord(gen Generation) Handle {
	obj := NewRecordObj()
	obj.Generation = gen
	a.records = append(a.records, obj)
	return Handle{Kind: KindRecord, Index: int32(len(a.records) - 1)}
}

func (a *Arena) AllocFunction(gen Generation, entry, arity int, variadic bool, locals int, name string) Handle {
	obj := NewFunctionObj(entry, arity, variadic, locals, name)
	obj.Generation = gen
	a.functions = append(a.functions, obj)
	return Handle{Kind: KindFunction, Index: int32(len(a.functions) - 1)}
}

func (a *Arena) AllocClosure(gen Generation, fn Handle) Handle {
	obj := NewClosureObj(fn)
	obj.Generation = gen
	a.closures = append(a.closures, obj)
	return Handle{Kind: KindClosure, Index: int32(len(a.closures) - 1)}
}

// Get resolves a Handle to its backing Object. Returns nil, false for a
// handle addressing a freed or out-of-range slot.
func (a *Arena) Get(h Handle) (Object, bool) {
	switch h.Kind {
	case KindArray:
		if int(h.Index) < 0 || int(h.Index) >= len(a.arrays) {
			return nil, false
		}
		obj := a.arrays[h.Index]
		return obj, obj != nil && obj.Live
	case KindMap:
		if int(h.Index) < 0 || int(h.Index) >= len(a.maps) {
			return nil, false
		}
		obj := a.maps[h.Index]
		return obj, obj != nil && obj.Live
	case KindRecord:
		if int(h.Index) < 0 || int(h.Index) >= len(a.records) {
			return nil, false
		}
		obj := a.records[h.Index]
		return obj, obj != nil && obj.Live
	case KindFunction:
		if int(h.Index) < 0 || int(h.Index) >= len(a.functions) {
			return nil, false
		}
		obj := a.functions[h.Index]
		return obj, obj != nil && obj.Live
	case KindClosure:
		if int(h.Index) < 0 || int(h.Index) >= len(a.closures) {
			return nil, false
		}
		obj := a.closures[h.Index]
		return obj, obj != nil && obj.Live
	default:
		return nil, false
	}
}

func (a *Arena) Array(h Handle) (*ArrayObj, bool) {
	if h.Kind != KindArray || int(h.Index) < 0 || int(h.Index) >= len(a.arrays) {
		return nil, false
	}
	obj := a.arrays[h.Index]
	return obj, obj != nil && obj.Live
}

func (a *Arena) Map(h Handle) (*MapObj, bool) {
	if h.Kind != KindMap || int(h.Index) < 0 || int(h.Index) >= len(a.maps) {
		return nil, false
	}
	obj := a.maps[h.Index]
	return obj, obj != nil && obj.Live
}

func (a *Arena) Record(h Handle) (*RecordObj, bool) {
	if h.Kind != KindRecord || int(h.Index) < 0 || int(h.Index) >= len(a.records) {
		return nil, false
	}
	obj := a.records[h.Index]
	return obj, obj != nil && obj.Live
}

func (a *Arena) Function(h Handle) (*FunctionObj, bool) {
	if h.Kind != KindFunction || int(h.Index) < 0 || int(h.Index) >= len(a.functions) {
		return nil, false
	}
	obj := a.functions[h.Index]
	return obj, obj != nil && obj.Live
}

func (a *Arena) Closure(h Handle) (*ClosureObj, bool) {
	if h.Kind != KindClosure || int(h.Index) < 0 || int(h.Index) >= len(a.closures) {
		return nil, false
	}
	obj := a.closures[h.Index]
	return obj, obj != nil && obj.Live
}

// Free releases a slot's storage in place; the slot index is never reused
// (no free-list), matching the arena's append-only allocation discipline.
func (a *Arena) Free(h Handle) {
	switch h.Kind {
	case KindArray:
		a.arrays[h.Index].Live = false
		a.arrays[h.Index].Elements = nil
	case KindMap:
		a.maps[h.Index].Live = false
		a.maps[h.Index].Items = nil
	case KindRecord:
		a.records[h.Index].Live = false
		a.records[h.Index].Items = nil
	case KindFunction:
		a.functions[h.Index].Live = false
	case KindClosure:
		a.closures[h.Index].Live = false
		a.closures[h.Index].Captures = nil
	}
}

// Walk invokes fn for every live object in the arena, across all kinds.
// The collector uses this for both generation-filtered sweeps (filtering
// on Hdr().Generation itself) since the header, not a separate list,
// carries generation membership.
func (a *Arena) Walk(fn func(Handle, Object)) {
	for i, o := range a.arrays {
		if o != nil && o.Live {
			fn(Handle{Kind: KindArray, Index: int32(i)}, o)
		}
	}
	for i, o := range a.maps {
		if o != nil && o.Live {
			fn(Handle{Kind: KindMap, Index: int32(i)}, o)
		}
	}
	for i, o := range a.records {
		if o != nil && o.Live {
			fn(Handle{Kind: KindRecord, Index: int32(i)}, o)
		}
	}
	for i, o := range a.functions {
		if o != nil && o.Live {
			fn(Handle{Kind: KindFunction, Index: int32(i)}, o)
		}
	}
	for i, o := range a.closures {
		if o != nil && o.Live {
			fn(Handle{Kind: KindClosure, Index: int32(i)}, o)
		}
	}
}

// Stats summarizes arena occupancy for the diagnostic surface.
type Stats struct {
	Arrays, Maps, Records, Functions, Closures int
	YoungLive, OldLive                         int
}

func (a *Arena) Stats() Stats {
	var s Stats
	a.Walk(func(h Handle, o Object) {
		switch h.Kind {
		case KindArray:
			s.Arrays++
		case KindMap:
			s.Maps++
		case KindRecord:
			s.Records++
		case KindFunction:
			s.Functions++
		case KindClosure:
			s.Closures++
		}
		if o.Hdr().Generation == Young {
			s.YoungLive++
		} else {
			s.OldLive++
		}
	})
	return s
}

// Describe renders the "<Kind>[<count>]" / "<Kind>@<address>" token spec
// §4.1 calls for: collections show their length, everything else an
// implementation-stable identity token (kind + arena index).
func (a *Arena) Describe(h Handle) string {
	switch h.Kind {
	case KindArray:
		if o, ok := a.Array(h); ok {
			return kindBracket(h.Kind, o.Len())
		}
	case KindMap:
		if o, ok := a.Map(h); ok {
			return kindBracket(h.Kind, o.Len())
		}
	case KindRecord:
		if o, ok := a.Record(h); ok {
			return kindBracket(h.Kind, o.Len())
		}
	case KindFunction:
		if _, ok := a.Function(h); ok {
			return kindAddr(h.Kind, int(h.Index))
		}
	case KindClosure:
		if _, ok := a.Closure(h); ok {
			return kindAddr(h.Kind, int(h.Index))
		}
	}
	return kindAddr(h.Kind, int(h.Index))
}
