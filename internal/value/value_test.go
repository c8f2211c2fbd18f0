package value

import "testing"

func TestTruthyLaw(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil, false},
		{Bool(false), false},
		{Bool(true), true},
		{Int(0), false},
		{Int(1), true},
		{Float(0), false},
		{Str(""), false},
		{Str("x"), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%+v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualReflexive(t *testing.T) {
	vals := []Value{Nil, Bool(true), Int(5), Float(2.5), Str("abc")}
	for _, v := range vals {
		if !Equal(v, v) {
			t.Errorf("Equal(%+v, %+v) should be true", v, v)
		}
	}
}

func TestEqualRequiresMatchingKind(t *testing.T) {
	if Equal(Int(1), Bool(true)) {
		t.Errorf("values of different kinds must never be equal")
	}
}

func TestAsFloatWidensInt(t *testing.T) {
	if AsFloat(Int(3)) != 3.0 {
		t.Errorf("expected AsFloat(Int(3)) == 3.0")
	}
	if !IsNumeric(Int(3)) || !IsNumeric(Float(3)) || IsNumeric(Str("3")) {
		t.Errorf("IsNumeric misclassified a value")
	}
}

func TestToTextRendersScalars(t *testing.T) {
	cases := map[string]Value{
		"42":    Int(42),
		"true":  Bool(true),
		"hello": Str("hello"),
	}
	for want, v := range cases {
		if got := ToText(v, nil); got != want {
			t.Errorf("ToText(%+v) = %q, want %q", v, got, want)
		}
	}
}
