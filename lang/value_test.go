package lang

import (
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v       Value
		str     string
		inspect string
		kind    Kind
		native  any
	}{
		{v: Null, str: "null", inspect: "null", kind: KindNull, native: nil},
		{v: Int(-42), str: "-42", inspect: "-42", kind: KindInteger, native: int64(-42)},
		{v: Float(2), str: "2.0", inspect: "2.0", kind: KindFloat, native: float64(2)},
		{v: Float(0.25), str: "0.25", inspect: "0.25", kind: KindFloat, native: 0.25},
		{v: Float(math.Inf(1)), str: "+Inf", inspect: "+Inf", kind: KindFloat, native: math.Inf(1)},
		{v: Bool(true), str: "true", inspect: "true", kind: KindBool, native: true},
		{v: String("hi"), str: "hi", inspect: `"hi"`, kind: KindString, native: "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.inspect, func(t *testing.T) {
			if got := tt.v.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}

			if got := tt.v.Inspect(); got != tt.inspect {
				t.Errorf("Inspect() = %q, want %q", got, tt.inspect)
			}

			if got := tt.v.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}

			if got := tt.v.Any(); got != tt.native {
				t.Errorf("Any() = %#v, want %#v", got, tt.native)
			}
		})
	}
}

func TestValueAccessors(t *testing.T) {
	if _, ok := Int(1).AsFloat(); ok {
		t.Error("Int(1).AsFloat() reported ok")
	}

	if b, ok := Bool(false).AsBool(); !ok || b {
		t.Errorf("Bool(false).AsBool() = %t, %t", b, ok)
	}

	if s, ok := String("").AsString(); !ok || s != "" {
		t.Errorf(`String("").AsString() = %q, %t`, s, ok)
	}

	if !(Value{}).IsNull() {
		t.Error("zero Value is not null")
	}

	if Int(0) == Null || Bool(false) == Null || String("") == Null {
		t.Error("zero payloads compare equal to null")
	}
}
