package engine

import (
	"bytes"
	"strings"
	"testing"

	"stackvm/internal/errors"
	"stackvm/internal/program"
	"stackvm/internal/value"
)

func run(t *testing.T, p *program.Program) (*Engine, *errors.VMError) {
	t.Helper()
	var out bytes.Buffer
	e := New(p, strings.NewReader(""), &out)
	err := e.Run()
	return e, err
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *program.Program
		expected value.Value
	}{
		{
			name: "int addition",
			build: func() *program.Program {
				p := program.New()
				p.Append(program.PushIntOp(10), program.PushIntOp(20), program.Op0(program.ADD))
				return p
			},
			expected: value.Int(30),
		},
		{
			name: "mixed promotes to float",
			build: func() *program.Program {
				p := program.New()
				p.Append(program.PushIntOp(10), program.PushFloatOp(2.5), program.Op0(program.ADD))
				return p
			},
			expected: value.Float(12.5),
		},
		{
			name: "int division truncates toward zero",
			build: func() *program.Program {
				p := program.New()
				p.Append(program.PushIntOp(-7), program.PushIntOp(2), program.Op0(program.DIV))
				return p
			},
			expected: value.Int(-3),
		},
		{
			name: "mod is non-negative for a positive divisor",
			build: func() *program.Program {
				p := program.New()
				p.Append(program.PushIntOp(-7), program.PushIntOp(3), program.Op0(program.MOD))
				return p
			},
			expected: value.Int(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.build()
			p.Append(program.Op1(program.STORE_GLOBAL, 0), program.Op0(program.HALT))
			e, err := run(t, p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, _ := e.Global(0)
			if !value.Equal(got, tt.expected) {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	p := program.New()
	p.Append(program.PushIntOp(1), program.PushIntOp(0), program.Op0(program.DIV), program.Op0(program.HALT))
	_, err := run(t, p)
	if err == nil || err.Kind != errors.DivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestComparisonMismatchedTypesAreFalse(t *testing.T) {
	p := program.New()
	p.Append(program.PushIntOp(1), program.PushBoolOp(true), program.Op0(program.LT), program.Op1(program.STORE_GLOBAL, 0), program.Op0(program.HALT))
	e, err := run(t, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Global(0)
	if got.Kind != value.KindBool || got.B {
		t.Errorf("expected false, got %+v", got)
	}
}

// an empty record is truthy even though empty arrays/maps are not: spec.md
// §3 lists records (and functions/closures) as always true, independent of
// field count.
func TestEmptyRecordIsTruthy(t *testing.T) {
	p := program.New()
	p.Append(
		program.Op0(program.STRUCT_NEW),
		program.Op0(program.NOT),
		program.Op1(program.STORE_GLOBAL, 0),
		program.Op0(program.HALT),
	)
	e, err := run(t, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Global(0)
	if got.Kind != value.KindBool || got.B {
		t.Errorf("expected NOT(empty record) == false, got %+v", got)
	}
}

// ARRAY_NEW, DUP, PUSH 7, ARRAY_PUSH, DUP, PUSH 0, ARRAY_GET, PRINT, HALT
// should print "7" — the array reference survives ARRAY_PUSH on the stack
// beneath its duplicate, letting a single handle be reused across ops.
func TestArrayPushThenGet(t *testing.T) {
	p := program.New()
	p.Append(
		program.Op0(program.ARRAY_NEW),
		program.Op0(program.DUP),
		program.PushIntOp(7),
		program.Op0(program.ARRAY_PUSH),
		program.Op0(program.DUP),
		program.PushIntOp(0),
		program.Op0(program.ARRAY_GET),
		program.Op0(program.PRINT),
		program.Op0(program.HALT),
	)
	var out bytes.Buffer
	e := New(p, strings.NewReader(""), &out)
	if err := e.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "7" {
		t.Errorf("printed %q, want %q", got, "7")
	}
}

func TestArraySetGrowsAndNilPads(t *testing.T) {
	p := program.New()
	p.Append(
		program.Op0(program.ARRAY_NEW),
		program.Op0(program.DUP),
		program.PushIntOp(3),
		program.PushIntOp(99),
		program.Op0(program.ARRAY_SET),
		program.Op0(program.DUP),
		program.Op0(program.ARRAY_LEN),
		program.Op1(program.STORE_GLOBAL, 0),
		program.Op0(program.HALT),
	)
	e, err := run(t, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Global(0)
	if !value.Equal(got, value.Int(4)) {
		t.Errorf("expected length 4 after ARRAY_SET(3,...), got %+v", got)
	}
	arr, ok := e.Arena.Array(e.StackSnapshot()[0].H)
	if !ok {
		t.Fatalf("expected the array to remain on the stack")
	}
	for i := 0; i < 3; i++ {
		if v, _ := arr.Get(i); v.Kind != value.KindNil {
			t.Errorf("expected padded index %d to be nil, got %+v", i, v)
		}
	}
}

func TestMapSetIsPeekPreserved(t *testing.T) {
	p := program.New()
	p.Append(
		program.Op0(program.HASHMAP_NEW),
		program.PushStringOp("key"),
		program.PushIntOp(42),
		program.Op0(program.HASHMAP_SET),
		program.PushStringOp("key"),
		program.Op0(program.HASHMAP_GET),
		program.Op1(program.STORE_GLOBAL, 0),
		program.Op0(program.HALT),
	)
	e, err := run(t, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Global(0)
	if !value.Equal(got, value.Int(42)) {
		t.Errorf("expected 42, got %+v", got)
	}
}

func TestBreakOutsideLoopFails(t *testing.T) {
	p := program.New()
	p.Append(program.Op0(program.BREAK), program.Op0(program.HALT))
	_, err := run(t, p)
	if err == nil || err.Kind != errors.BreakOutsideLoop {
		t.Fatalf("expected BreakOutsideLoop, got %v", err)
	}
}

func TestWhileLoopCountsToThree(t *testing.T) {
	// globals[0] = 0
	// while globals[0] < 3: globals[0] += 1
	p := program.New()
	p.Append(program.PushIntOp(0), program.Op1(program.STORE_GLOBAL, 0))
	startAddr := p.Append(program.Op1(program.WHILE_START, 0)) // end patched below
	p.Append(
		program.Op1(program.LOAD_GLOBAL, 0), program.PushIntOp(3), program.Op0(program.LT),
		program.Op0(program.WHILE_CONDITION),
		program.Op1(program.LOAD_GLOBAL, 0), program.PushIntOp(1), program.Op0(program.ADD), program.Op1(program.STORE_GLOBAL, 0),
		program.Op0(program.WHILE_END),
	)
	endAddr := p.Len()
	p.Append(program.Op0(program.HALT))

	p.Instructions[startAddr].Operand = int64(endAddr)

	e, err := run(t, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Global(0)
	if !value.Equal(got, value.Int(3)) {
		t.Errorf("expected 3, got %+v", got)
	}
}

func TestThrowCaughtByHandler(t *testing.T) {
	p := program.New()
	tryIdx := p.Append(program.Op1(program.TRY_START, 0)) // catch addr patched below
	p.Append(program.PushStringOp("boom"), program.Op0(program.THROW))
	jumpPastCatch := p.Len()
	p.Append(program.Op1(program.JUMP, 0)) // patched to skip the catch block on fallthrough
	catchAddr := p.Len()
	p.Append(
		program.Op0(program.CATCH),
		program.Op1(program.STORE_GLOBAL, 0),
		program.Op0(program.TRY_END),
	)
	endAddr := p.Len()
	p.Append(program.Op0(program.HALT))

	p.Instructions[tryIdx].Operand = int64(catchAddr)
	p.Instructions[jumpPastCatch].Operand = int64(endAddr)

	e, err := run(t, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Global(0)
	if got.Kind != value.KindString || got.S != "boom" {
		t.Errorf("expected caught message %q, got %+v", "boom", got)
	}
}

func TestWeakRefSurvivesThenNullsOnCollection(t *testing.T) {
	p := program.New()
	p.Append(
		program.Op0(program.ARRAY_NEW),
		program.Op0(program.DUP),
		program.Op0(program.WEAK_REF_NEW),
		program.Op1(program.STORE_GLOBAL, 0), // weak ref id
		program.Op0(program.POP),             // drop the only strong reference
		program.Op0(program.GC_COLLECT),
		program.Op1(program.LOAD_GLOBAL, 0),
		program.Op0(program.WEAK_REF_GET),
		program.Op1(program.STORE_GLOBAL, 1),
		program.Op0(program.HALT),
	)
	e, err := run(t, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := e.Global(1)
	if got.Kind != value.KindNil {
		t.Errorf("expected weak ref to be nulled after collection, got %+v", got)
	}
}
