package engine

import (
	"context"
	"fmt"
	"io"

	"stackvm/internal/errors"
	"stackvm/internal/gc"
	"stackvm/internal/program"
	"stackvm/internal/value"
)

// Options configures an Engine at construction time — the host-facing
// counterpart to New's positional arguments, for cmd/stackvm's flag-driven
// setup (stack size override, I/O redirection, an attached DebugHook).
type Options struct {
	StackSize int
	Stdin     io.Reader
	Stdout    io.Writer
	Hook      DebugHook
}

// NewFromOptions builds an Engine the way cmd/stackvm does: explicit
// Options rather than New's positional stdin/stdout, with an optional
// DebugHook already attached.
func NewFromOptions(opts Options, prog *program.Program) *Engine {
	e := New(prog, opts.Stdin, opts.Stdout)
	if opts.StackSize > 0 {
		e.stack = make([]value.Value, opts.StackSize)
	}
	e.DebugHook = opts.Hook
	return e
}

// Execute runs Program like Run, but checks ctx once per instruction so a
// host can cancel a runaway program (Ctrl-C) without the engine itself
// implementing any internal timeout — spec §5 rules those out.
func (e *Engine) Execute(ctx context.Context) (*errors.VMError, bool) {
	for e.ip < len(e.Program.Instructions) && !e.halted {
		select {
		case <-ctx.Done():
			return e.fail(errors.Cancelled, "execution cancelled: %v", ctx.Err()), false
		default:
		}
		ins := e.Program.Instructions[e.ip]
		if e.DebugHook != nil {
			if !e.DebugHook.OnInstruction(e, e.ip, ins) {
				return nil, true
			}
		}
		if err := e.step(ins); err != nil {
			return err, false
		}
	}
	return nil, true
}

// Close releases resources Execute held open. The engine itself owns no
// file descriptors or goroutines; Close exists so cmd/stackvm can treat
// the engine like any other closer in a defer chain.
func (e *Engine) Close() {}

// Reset rewires the engine onto a new program, clearing the operand stack,
// call/loop/switch frames and program counter — the VM-reuse path the
// teacher's REPL took, adapted here for re-running a different demo
// program against one already-warm heap/collector pair.
func (e *Engine) Reset(p *program.Program) {
	e.Program = p
	e.ip = 0
	e.halted = false
	e.sp = 0
	e.bp = 0
	e.callStack = e.callStack[:0]
	e.loopStack = e.loopStack[:0]
	e.switchStack = e.switchStack[:0]
	e.exception = nil
}

// PrintStack writes the live operand stack, top of stack last, using the
// same value.ToText rendering PRINT uses.
func (e *Engine) PrintStack(w io.Writer) {
	fmt.Fprintf(w, "operand stack (depth %d):\n", e.sp)
	for i := 0; i < e.sp; i++ {
		fmt.Fprintf(w, "  [%d] %s\n", i, e.describeValue(e.stack[i]))
	}
}

// PrintGlobals writes every non-nil global slot.
func (e *Engine) PrintGlobals(w io.Writer) {
	fmt.Fprintln(w, "globals:")
	for i, g := range e.globals {
		if g.Kind == value.KindNil {
			continue
		}
		fmt.Fprintf(w, "  [%d] %s\n", i, e.describeValue(g))
	}
}

// PrintMemoryStats writes a Collector/Arena snapshot the way
// internal/diagnostics' Sink persists it, for a one-shot human-readable
// dump when no stats DSN is configured.
func (e *Engine) PrintMemoryStats(w io.Writer) {
	s := e.Stats()
	fmt.Fprintf(w, "collections: %d (minor %d, major %d), finalized %d\n",
		s.Collections, s.MinorRuns, s.MajorRuns, s.Finalized)
	fmt.Fprintf(w, "young live: %d, old live: %d\n", s.ArenaStats.YoungLive, s.ArenaStats.OldLive)
	fmt.Fprintf(w, "arrays: %d, maps: %d, records: %d, functions: %d, closures: %d\n",
		s.ArenaStats.Arrays, s.ArenaStats.Maps, s.ArenaStats.Records, s.ArenaStats.Functions, s.ArenaStats.Closures)
}

// Stats returns the Collector/Arena snapshot PrintMemoryStats renders, for
// a caller (the diagnostics sink, the stream) that wants the structured
// value instead of text.
func (e *Engine) Stats() gc.Stats {
	a := e.Arena.Stats()
	return e.GC.Snapshot(a.Arrays, a.Maps, a.Records, a.Functions, a.Closures, a.YoungLive, a.OldLive)
}
