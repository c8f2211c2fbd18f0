// Package frame defines the transient scope records the engine pushes and
// pops: call frames (which double as exception handler frames, spec
// §4.7), loop frames, and switch frames.
package frame

// CallFrame records one CALL's bookkeeping (spec §4.6) and, when IsHandler
// is set, doubles as the handler frame TRY_START pushes (spec §4.7): a
// handler frame is specified as "a call frame with is_handler = true,
// catch_addr", so this type carries both shapes rather than duplicating
// the struct.
type CallFrame struct {
	ReturnAddr int
	SavedBP    int
	ArgCount   int
	BasePtr    int    // this frame's own bp, for the GC's argument-region root scan (spec §4.10)
	Function   string // descriptor name, for diagnostics only

	IsHandler bool
	CatchAddr int
	SavedSP   int // handler frames only: operand stack depth at TRY_START
}

// LoopKind distinguishes a FOR_INIT frame from a WHILE_START frame; both
// are popped/continued identically (spec §4.4) but the kind is kept for
// inspection/debugging.
type LoopKind byte

const (
	ForLoop LoopKind = iota
	WhileLoop
)

// LoopFrame is pushed by FOR_INIT/WHILE_START and drives BREAK/CONTINUE.
type LoopFrame struct {
	Start int
	End   int
	Kind  LoopKind
}

// SwitchFrame is pushed by SWITCH_START. Default is the DEFAULT_CASE
// target, valid only if HasDefault.
type SwitchFrame struct {
	End        int
	Default    int
	HasDefault bool
}
