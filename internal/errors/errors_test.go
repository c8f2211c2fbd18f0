package errors

import (
	"strings"
	"testing"
)

func TestErrorMessageIncludesKindAndLocation(t *testing.T) {
	err := Newf(DivisionByZero, "divide by %d", 0).AtIP(12, 3)
	msg := err.Error()
	if !strings.Contains(msg, "DivisionByZero") {
		t.Errorf("expected kind in message, got %q", msg)
	}
	if !strings.Contains(msg, "ip=12") || !strings.Contains(msg, "sp=3") {
		t.Errorf("expected ip/sp in message, got %q", msg)
	}
}

func TestErrorMessageIncludesCallStack(t *testing.T) {
	err := New(RuntimeException, "boom").WithCallStack([]StackFrame{
		{Function: "f", IP: 10, BasePtr: 2},
	})
	msg := err.Error()
	if !strings.Contains(msg, "at f (ip=10, bp=2)") {
		t.Errorf("expected call stack frame in message, got %q", msg)
	}
}
