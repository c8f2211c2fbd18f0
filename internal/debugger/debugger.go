// internal/debugger/debugger.go
package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DebugState represents the current debugging state
type DebugState int

const (
	Running DebugState = iota
	Paused
	StepInto
	StepOver
	StepOut
	Terminated
)

// Breakpoint represents a debug breakpoint keyed by instruction address.
// Bytecode has no guaranteed source map (spec §1 puts the compiler out of
// scope), so addresses are the one coordinate every program carries. File
// and Line are shown by ListBreakpoints when set; AddBreakpoint leaves
// them empty.
type Breakpoint struct {
	ID       int
	Address  int
	File     string
	Line     int
	Enabled  bool
	HitCount int
}

// StackFrame is one call-frame entry as shown to the user, translated from
// frame.CallFrame (internal/engine's execution-time representation).
type StackFrame struct {
	Function string
	ReturnIP int
	BasePtr  int
}

// Debugger provides interactive debugging for a running engine.Engine. It
// never touches engine internals directly — only the exported inspection
// surface (IP, CallStack, StackSnapshot, Global, Describe) — so it can
// observe a VM without becoming part of its hot path.
type Debugger struct {
	breakpoints  map[int]*Breakpoint
	nextBpID     int
	state        DebugState
	currentFrame int
	reader       *bufio.Reader
	watches      map[string]string
	callStack    []StackFrame
}

// NewDebugger creates a debugger ready to attach to an engine via an
// EngineDebugHook (see vm_hook.go).
func NewDebugger() *Debugger {
	return &Debugger{
		breakpoints: make(map[int]*Breakpoint),
		nextBpID:    1,
		state:       Paused,
		reader:      bufio.NewReader(os.Stdin),
		watches:     make(map[string]string),
		callStack:   make([]StackFrame, 0),
	}
}

// AddBreakpoint adds a new breakpoint at the given instruction address.
func (d *Debugger) AddBreakpoint(address int) int {
	bp := &Breakpoint{
		ID:      d.nextBpID,
		Address: address,
		Enabled: true,
	}
	d.breakpoints[d.nextBpID] = bp
	d.nextBpID++
	fmt.Printf("breakpoint %d set at ip=%d\n", bp.ID, address)
	return bp.ID
}

// RemoveBreakpoint removes a breakpoint by ID.
func (d *Debugger) RemoveBreakpoint(id int) bool {
	if bp, exists := d.breakpoints[id]; exists {
		delete(d.breakpoints, id)
		fmt.Printf("breakpoint %d removed (was at ip=%d)\n", bp.ID, bp.Address)
		return true
	}
	fmt.Printf("breakpoint %d not found\n", id)
	return false
}

// ListBreakpoints shows all current breakpoints.
func (d *Debugger) ListBreakpoints() {
	if len(d.breakpoints) == 0 {
		fmt.Println("no breakpoints set")
		return
	}
	fmt.Println("breakpoints:")
	for _, bp := range d.breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		loc := fmt.Sprintf("ip=%d", bp.Address)
		if bp.File != "" {
			loc += fmt.Sprintf(" (%s:%d)", bp.File, bp.Line)
		}
		fmt.Printf("  %d: %s (%s) hits: %d\n", bp.ID, loc, status, bp.HitCount)
	}
}

// CheckBreakpoint reports whether execution should pause at ip, bumping
// the hit counter of any breakpoint it trips.
func (d *Debugger) CheckBreakpoint(ip int) bool {
	hit := false
	for _, bp := range d.breakpoints {
		if bp.Enabled && bp.Address == ip {
			bp.HitCount++
			fmt.Printf("\nbreakpoint %d hit at ip=%d (hit count: %d)\n", bp.ID, ip, bp.HitCount)
			hit = true
		}
	}
	if hit {
		d.state = Paused
	}
	return hit
}

// ShowCurrentLocation prints the instruction address and, when present,
// the source location DebugInfo carries for it.
func (d *Debugger) ShowCurrentLocation(ip int, file string, line int) {
	if file != "" {
		fmt.Printf("\n-> ip=%d  %s:%d\n", ip, file, line)
		return
	}
	fmt.Printf("\n-> ip=%d\n", ip)
}

// AddWatch adds a global-variable index to the watch list.
func (d *Debugger) AddWatch(expression string) {
	d.watches[expression] = ""
	fmt.Printf("watching: %s\n", expression)
}

// RemoveWatch removes an expression from the watch list.
func (d *Debugger) RemoveWatch(expression string) {
	if _, exists := d.watches[expression]; exists {
		delete(d.watches, expression)
		fmt.Printf("unwatched: %s\n", expression)
	} else {
		fmt.Printf("watch not found: %s\n", expression)
	}
}

// ShowWatches lists the watched expressions by name; nothing in this
// package evaluates them against the engine.
func (d *Debugger) ShowWatches() {
	if len(d.watches) == 0 {
		fmt.Println("no watches set")
		return
	}
	fmt.Println("watches:")
	for expr := range d.watches {
		fmt.Printf("  %s\n", expr)
	}
}

// ShowCallStack displays the current call stack, most recently pushed frame
// last — matching the order CallStack() returns it in.
func (d *Debugger) ShowCallStack() {
	fmt.Println("call stack:")
	for i, f := range d.callStack {
		marker := "   "
		if i == d.currentFrame {
			marker = "-> "
		}
		fmt.Printf("%s%d: %s (return ip=%d, bp=%d)\n", marker, i, f.Function, f.ReturnIP, f.BasePtr)
	}
}

// RunDebugger starts the interactive debugging session. It blocks on stdin
// until the user issues a command that changes state away from Paused.
func (d *Debugger) RunDebugger() {
	fmt.Println("stackvm debugger — type 'help' for commands")

	for d.state == Paused {
		fmt.Print("(stackvm-debug) ")
		command, err := d.reader.ReadString('\n')
		if err != nil {
			fmt.Printf("error reading command: %v\n", err)
			return
		}
		d.executeCommand(strings.TrimSpace(command))
	}
}

// executeCommand processes one debugger command line.
func (d *Debugger) executeCommand(command string) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "help", "h":
		d.showHelp()

	case "break", "b":
		if len(args) >= 1 {
			addr, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("invalid instruction address: %s\n", args[0])
				return
			}
			d.AddBreakpoint(addr)
		} else {
			fmt.Println("usage: break <ip>")
		}

	case "delete", "d":
		if len(args) >= 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("invalid breakpoint id: %s\n", args[0])
				return
			}
			d.RemoveBreakpoint(id)
		} else {
			fmt.Println("usage: delete <breakpoint_id>")
		}

	case "list", "l":
		d.ListBreakpoints()

	case "continue", "c":
		d.state = Running
		fmt.Println("continuing")

	case "step", "s":
		d.state = StepInto
		fmt.Println("stepping into")

	case "next", "n":
		d.state = StepOver
		fmt.Println("stepping over")

	case "finish", "f":
		d.state = StepOut
		fmt.Println("stepping out")

	case "where", "w":
		d.ShowCallStack()

	case "watch":
		if len(args) >= 1 {
			d.AddWatch(strings.Join(args, " "))
		} else {
			d.ShowWatches()
		}

	case "unwatch":
		if len(args) >= 1 {
			d.RemoveWatch(strings.Join(args, " "))
		} else {
			fmt.Println("usage: unwatch <expression>")
		}

	case "quit", "q":
		d.state = Terminated
		fmt.Println("debugging session terminated")

	default:
		fmt.Printf("unknown command: %s (type 'help' for available commands)\n", cmd)
	}
}

// showHelp displays available debugger commands.
func (d *Debugger) showHelp() {
	fmt.Println("available commands:")
	fmt.Println("  help, h          - show this help")
	fmt.Println("  break <ip>       - set breakpoint at instruction address")
	fmt.Println("  delete <id>      - remove breakpoint by id")
	fmt.Println("  list             - list all breakpoints")
	fmt.Println("  continue, c      - continue execution")
	fmt.Println("  step, s          - step into next instruction")
	fmt.Println("  next, n          - step over next instruction")
	fmt.Println("  finish, f        - step out of current call frame")
	fmt.Println("  where, w         - show call stack")
	fmt.Println("  watch <global#>  - add global index to watch list")
	fmt.Println("  unwatch <expr>   - remove expression from watch list")
	fmt.Println("  quit, q          - exit debugger")
}

// GetState returns the current debug state.
func (d *Debugger) GetState() DebugState { return d.state }

// SetState sets the debug state.
func (d *Debugger) SetState(state DebugState) { d.state = state }
