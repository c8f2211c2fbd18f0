package main

import (
	"stackvm/internal/program"
)

// Embedded demo programs, one per worked scenario this system's design
// notes enumerate as testable properties. Producing a compiled program
// file is a compiler's job, which is out of scope here — these exist so
// the engine can be exercised without one.

func demoNames() []string {
	return []string{"arithmetic", "counted-loop", "string-concat", "array-roundtrip", "uncaught-throw"}
}

func demoByName(name string) (*program.Program, bool) {
	switch name {
	case "arithmetic":
		return demoArithmetic(), true
	case "counted-loop":
		return demoCountedLoop(), true
	case "string-concat":
		return demoStringConcat(), true
	case "array-roundtrip":
		return demoArrayRoundtrip(), true
	case "uncaught-throw":
		return demoUncaughtThrow(), true
	default:
		return nil, false
	}
}

// demoArithmetic: PUSH 10, PUSH 32, ADD, PRINT, HALT -> prints 42.
func demoArithmetic() *program.Program {
	p := program.New()
	p.Append(
		program.PushIntOp(10),
		program.PushIntOp(32),
		program.Op0(program.ADD),
		program.Op0(program.PRINT),
		program.Op0(program.HALT),
	)
	return p
}

// demoCountedLoop: a global counter walked from 0 to 4 with
// JUMP_IF_FALSE, printing one line per iteration.
func demoCountedLoop() *program.Program {
	p := program.New()
	p.Append(program.PushIntOp(0), program.Op1(program.STORE_GLOBAL, 0))

	condAddr := p.Len()
	p.Append(
		program.Op1(program.LOAD_GLOBAL, 0),
		program.PushIntOp(5),
		program.Op0(program.LT),
	)
	jumpIfFalseAddr := p.Append(program.Op1(program.JUMP_IF_FALSE, 0))

	p.Append(
		program.Op1(program.LOAD_GLOBAL, 0),
		program.Op0(program.PRINT),
		program.Op1(program.LOAD_GLOBAL, 0),
		program.PushIntOp(1),
		program.Op0(program.ADD),
		program.Op1(program.STORE_GLOBAL, 0),
	)
	p.Append(program.Op1(program.JUMP, int64(condAddr)))

	endAddr := p.Append(program.Op0(program.HALT))
	p.Instructions[jumpIfFalseAddr].Operand = int64(endAddr)
	return p
}

// demoStringConcat: PUSH "foo", PUSH "bar", STRING_CONCAT, PRINT, HALT
// -> prints foobar.
func demoStringConcat() *program.Program {
	p := program.New()
	p.Append(
		program.PushStringOp("foo"),
		program.PushStringOp("bar"),
		program.Op0(program.STRING_CONCAT),
		program.Op0(program.PRINT),
		program.Op0(program.HALT),
	)
	return p
}

// demoArrayRoundtrip: ARRAY_NEW, DUP, PUSH 7, ARRAY_PUSH, DUP, PUSH 0,
// ARRAY_GET, PRINT, HALT -> prints 7.
func demoArrayRoundtrip() *program.Program {
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
	return p
}

// demoUncaughtThrow: PUSH "boom", THROW outside any TRY_START -> the
// engine terminates with a RuntimeException and an empty operand stack.
func demoUncaughtThrow() *program.Program {
	p := program.New()
	p.Append(
		program.PushStringOp("boom"),
		program.Op0(program.THROW),
	)
	return p
}
