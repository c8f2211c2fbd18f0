// internal/debugger/vm_hook.go
package debugger

import (
	"fmt"

	"stackvm/internal/engine"
	"stackvm/internal/errors"
	"stackvm/internal/program"
)

// EngineDebugHook implements engine.DebugHook, wiring a Debugger's
// breakpoints and step state into the engine's instruction loop.
type EngineDebugHook struct {
	debugger *Debugger
	lastCall int // call-stack depth as of the last OnInstruction, for step-over/out
}

// NewEngineDebugHook creates a hook bound to an existing Debugger.
func NewEngineDebugHook(debugger *Debugger) *EngineDebugHook {
	return &EngineDebugHook{debugger: debugger}
}

// OnInstruction is called before each instruction executes. Returning false
// halts the engine; Run() treats a DebugHook-requested halt like HALT.
func (h *EngineDebugHook) OnInstruction(e *engine.Engine, ip int, ins program.Instruction) bool {
	h.updateCallStack(e)
	depth := len(e.CallStack())

	if h.debugger.CheckBreakpoint(ip) {
		h.debugger.ShowCurrentLocation(ip, ins.Debug.File, ins.Debug.Line)
		h.debugger.RunDebugger()
		return h.debugger.GetState() != Terminated
	}

	switch h.debugger.GetState() {
	case StepInto:
		h.debugger.ShowCurrentLocation(ip, ins.Debug.File, ins.Debug.Line)
		h.debugger.SetState(Paused)
		h.debugger.RunDebugger()
		return h.debugger.GetState() != Terminated

	case StepOver:
		if depth <= h.lastCall {
			h.debugger.ShowCurrentLocation(ip, ins.Debug.File, ins.Debug.Line)
			h.debugger.SetState(Paused)
			h.debugger.RunDebugger()
		}
		return h.debugger.GetState() != Terminated

	case StepOut:
		if depth < h.lastCall {
			h.debugger.ShowCurrentLocation(ip, ins.Debug.File, ins.Debug.Line)
			h.debugger.SetState(Paused)
			h.debugger.RunDebugger()
		}
		return h.debugger.GetState() != Terminated

	case Paused:
		h.debugger.ShowCurrentLocation(ip, ins.Debug.File, ins.Debug.Line)
		h.debugger.RunDebugger()
		state := h.debugger.GetState()
		return state != Terminated && state != Paused

	case Terminated:
		return false

	default:
		return true
	}
}

// OnCall records the call depth at entry so step-over/step-out can compare
// against it on subsequent instructions.
func (h *EngineDebugHook) OnCall(e *engine.Engine, entry int) {
	h.updateCallStack(e)
	h.lastCall = len(e.CallStack())
}

// OnReturn refreshes the call-stack view after a RETURN unwinds a frame.
func (h *EngineDebugHook) OnReturn(e *engine.Engine) {
	h.updateCallStack(e)
	h.lastCall = len(e.CallStack())
}

// OnError shows where execution was when a VMError was raised. It does not
// automatically drop into the interactive loop — the host decides whether
// an error should pause for inspection or propagate.
func (h *EngineDebugHook) OnError(e *engine.Engine, err *errors.VMError) {
	debug := e.CurrentDebugInfo()
	h.debugger.ShowCurrentLocation(e.IP(), debug.File, debug.Line)
	fmt.Printf("error: %s\n", err.Error())
}

// updateCallStack mirrors the engine's live call stack into the debugger's
// display-oriented StackFrame slice.
func (h *EngineDebugHook) updateCallStack(e *engine.Engine) {
	frames := e.CallStack()
	out := make([]StackFrame, 0, len(frames))
	for _, f := range frames {
		out = append(out, StackFrame{
			Function: f.Function,
			ReturnIP: f.ReturnAddr,
			BasePtr:  f.BasePtr,
		})
	}
	h.debugger.callStack = out
}
