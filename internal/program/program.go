package program

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// DebugInfo stores optional source location for one instruction. The
// assembler/compiler producing it is out of scope (spec §1); the engine
// only ever reads it back for diagnostics.
type DebugInfo struct {
	Line     int
	Column   int
	File     string
	Function string
}

// Instruction is the fixed-shape record spec §6 specifies: an opcode and
// up to three operands, unused ones zero.
type Instruction struct {
	Op       Opcode
	Operand  int64
	Operand2 int64
	Operand3 int64
	Str      string // payload for PUSH's PushString variant only
	Debug    DebugInfo
}

// Program is the immutable instruction vector the engine executes.
type Program struct {
	Instructions []Instruction
}

// Op0 builds a zero-operand instruction.
func Op0(op Opcode) Instruction { return Instruction{Op: op} }

// Op1 builds a one-operand instruction.
func Op1(op Opcode, a int64) Instruction { return Instruction{Op: op, Operand: a} }

// Op2 builds a two-operand instruction.
func Op2(op Opcode, a, b int64) Instruction {
	return Instruction{Op: op, Operand: a, Operand2: b}
}

// Op3 builds a three-operand instruction.
func Op3(op Opcode, a, b, c int64) Instruction {
	return Instruction{Op: op, Operand: a, Operand2: b, Operand3: c}
}

// PushIntOp builds a PUSH instruction carrying an int literal.
func PushIntOp(v int64) Instruction { return Op2(PUSH, v, int64(PushInt)) }

// PushFloatOp builds a PUSH instruction carrying a float literal. Operand
// holds the float's IEEE-754 bit pattern (math.Float64bits), which the
// engine decodes with math.Float64frombits; an integer operand is not
// converted to the float of the same numeric value.
func PushFloatOp(v float64) Instruction {
	return Op2(PUSH, int64(math.Float64bits(v)), int64(PushFloat))
}

// PushBoolOp builds a PUSH instruction carrying a bool literal.
func PushBoolOp(v bool) Instruction {
	var i int64
	if v {
		i = 1
	}
	return Op2(PUSH, i, int64(PushBool))
}

// PushNilOp builds a PUSH instruction carrying nil.
func PushNilOp() Instruction { return Op2(PUSH, 0, int64(PushNil)) }

// PushStringOp builds a PUSH instruction carrying a string literal (the
// PushString variant, see PushKind).
func PushStringOp(s string) Instruction {
	return Instruction{Op: PUSH, Operand2: int64(PushString), Str: s}
}

// New builds an empty Program.
func New() *Program { return &Program{} }

// Append adds instructions and returns their starting address.
func (p *Program) Append(ins ...Instruction) int {
	addr := len(p.Instructions)
	p.Instructions = append(p.Instructions, ins...)
	return addr
}

// Len is the number of instructions in the program.
func (p *Program) Len() int { return len(p.Instructions) }

// Validate checks every jump-shaped operand targets a valid address,
// failing fast with InvalidJump-equivalent detail rather than letting the
// engine discover it mid-execution.
func (p *Program) Validate() error {
	n := int64(len(p.Instructions))
	checkTarget := func(ip int, target int64) error {
		if target < 0 || target >= n {
			return fmt.Errorf("instruction %d: jump target %d out of range [0,%d)", ip, target, n)
		}
		return nil
	}
	for i, ins := range p.Instructions {
		switch ins.Op {
		case JUMP, JUMP_IF_FALSE, JUMP_IF_TRUE, WHILE_START, SWITCH_START, TRY_START:
			if err := checkTarget(i, ins.Operand); err != nil {
				return err
			}
		case FOR_INIT:
			if err := checkTarget(i, ins.Operand); err != nil {
				return err
			}
			if err := checkTarget(i, ins.Operand2); err != nil {
				return err
			}
		case CALL:
			if err := checkTarget(i, ins.Operand2); err != nil {
				return err
			}
		case FUNCTION_DEF:
			if err := checkTarget(i, ins.Operand2); err != nil {
				return err
			}
		case CASE, DEFAULT_CASE:
			if err := checkTarget(i, ins.Operand); err != nil {
				return err
			}
		}
	}
	return nil
}

// magic identifies the host driver's binary program container (spec.md's
// "immutable instruction vector" made concrete on disk). Producing a
// compiled file is a compiler's job and out of scope; this container only
// exists so cmd/stackvm has something to load without one.
const magic uint32 = 0x5354564d // "STVM"

// Encode writes p to w as: magic, instruction count, then each
// instruction's opcode, three int64 operands, and its Str payload as a
// uint32 byte length followed by the bytes, little-endian. Debug info and
// source text are not persisted — the container is purely for
// smoke-testing the engine.
func Encode(w io.Writer, p *Program) error {
	if err := binary.Write(w, binary.LittleEndian, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(p.Instructions))); err != nil {
		return err
	}
	for _, ins := range p.Instructions {
		if err := binary.Write(w, binary.LittleEndian, byte(ins.Op)); err != nil {
			return err
		}
		for _, v := range [3]int64{ins.Operand, ins.Operand2, ins.Operand3} {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		strBytes := []byte(ins.Str)
		if err := binary.Write(w, binary.LittleEndian, uint32(len(strBytes))); err != nil {
			return err
		}
		if len(strBytes) > 0 {
			if _, err := w.Write(strBytes); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode reads a Program written by Encode.
func Decode(r io.Reader) (*Program, error) {
	var got uint32
	if err := binary.Read(r, binary.LittleEndian, &got); err != nil {
		return nil, err
	}
	if got != magic {
		return nil, fmt.Errorf("program: bad magic %08x", got)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	p := &Program{Instructions: make([]Instruction, count)}
	for i := range p.Instructions {
		var op byte
		if err := binary.Read(r, binary.LittleEndian, &op); err != nil {
			return nil, err
		}
		ins := Instruction{Op: Opcode(op)}
		for _, dst := range []*int64{&ins.Operand, &ins.Operand2, &ins.Operand3} {
			if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
				return nil, err
			}
		}
		var strLen uint32
		if err := binary.Read(r, binary.LittleEndian, &strLen); err != nil {
			return nil, err
		}
		if strLen > 0 {
			buf := make([]byte, strLen)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			ins.Str = string(buf)
		}
		p.Instructions[i] = ins
	}
	return p, nil
}
