package program

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := New()
	p.Append(
		PushIntOp(42),
		PushFloatOp(3.5),
		PushStringOp("hello"),
		Op0(ADD),
		Op1(JUMP, 0),
	)

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Len() != p.Len() {
		t.Fatalf("expected %d instructions, got %d", p.Len(), got.Len())
	}
	for i, want := range p.Instructions {
		if got.Instructions[i].Op != want.Op ||
			got.Instructions[i].Operand != want.Operand ||
			got.Instructions[i].Operand2 != want.Operand2 ||
			got.Instructions[i].Str != want.Str {
			t.Errorf("instruction %d: got %+v, want %+v", i, got.Instructions[i], want)
		}
	}
}

func TestValidateCatchesOutOfRangeJump(t *testing.T) {
	p := New()
	p.Append(Op1(JUMP, 99))
	if err := p.Validate(); err == nil {
		t.Fatalf("expected an out-of-range jump target to fail validation")
	}
}

func TestValidateAcceptsInRangeTargets(t *testing.T) {
	p := New()
	p.Append(Op1(JUMP, 1), Op0(HALT))
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not a program, too short")
	if _, err := Decode(buf); err == nil {
		t.Fatalf("expected decode to reject a non-container stream")
	}
}
