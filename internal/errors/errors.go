// internal/errors/errors.go
package errors

import (
	"fmt"
	"strings"
)

// Kind identifies the category of a VM error.
type Kind string

const (
	StackUnderflow     Kind = "StackUnderflow"
	StackOverflow      Kind = "StackOverflow"
	InvalidInstruction Kind = "InvalidInstruction"
	InvalidJump        Kind = "InvalidJump"
	TypeError          Kind = "TypeError"
	InvalidCast        Kind = "InvalidCast"
	UndefinedVariable  Kind = "UndefinedVariable"
	DivisionByZero     Kind = "DivisionByZero"
	IndexOutOfBounds   Kind = "IndexOutOfBounds"
	KeyNotFound        Kind = "KeyNotFound"
	BreakOutsideLoop   Kind = "BreakOutsideLoop"
	ContinueOutsideLoop Kind = "ContinueOutsideLoop"
	InvalidOperation   Kind = "InvalidOperation"
	RuntimeException   Kind = "RuntimeException"
	ResourceError      Kind = "ResourceError"
	Cancelled          Kind = "Cancelled"
)

// StackFrame records a single call-stack entry for a post-mortem dump.
type StackFrame struct {
	Function string
	IP       int
	BasePtr  int
}

// VMError is the structured error value the engine surfaces to the host.
// It carries enough state (instruction pointer, stack depth, a call-stack
// snapshot) that the host's inspection surface can render a useful
// post-mortem without re-running the program.
type VMError struct {
	Kind       Kind
	Message    string
	IP         int
	StackDepth int
	CallStack  []StackFrame
}

func (e *VMError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", e.Kind, e.Message))
	sb.WriteString(fmt.Sprintf("  at ip=%d, sp=%d\n", e.IP, e.StackDepth))
	if len(e.CallStack) > 0 {
		sb.WriteString("\ncall stack:\n")
		for _, f := range e.CallStack {
			if f.Function != "" {
				sb.WriteString(fmt.Sprintf("  at %s (ip=%d, bp=%d)\n", f.Function, f.IP, f.BasePtr))
			} else {
				sb.WriteString(fmt.Sprintf("  at ip=%d, bp=%d\n", f.IP, f.BasePtr))
			}
		}
	}
	return sb.String()
}

// New creates a bare VMError of the given kind.
func New(kind Kind, message string) *VMError {
	return &VMError{Kind: kind, Message: message}
}

// Newf creates a bare VMError with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *VMError {
	return &VMError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AtIP stamps the instruction pointer and stack depth at the point of failure.
func (e *VMError) AtIP(ip, sp int) *VMError {
	e.IP = ip
	e.StackDepth = sp
	return e
}

// WithCallStack attaches a call-stack snapshot.
func (e *VMError) WithCallStack(frames []StackFrame) *VMError {
	e.CallStack = frames
	return e
}
