package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Kind is the dynamic type tag of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindString
)

// String returns the lower-case kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"

	case KindInteger:
		return "integer"

	case KindFloat:
		return "float"

	case KindBool:
		return "bool"

	case KindString:
		return "string"

	default:
		return "unknown"
	}
}

// Value is a runtime value. The zero Value is null. Values are comparable
// and copied by value.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null is the null value.
var Null = Value{}

// Int returns an Integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a Float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a Bool value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}

	return v
}

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the dynamic type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the Integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

// AsFloat returns the Float payload.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsBool returns the Bool payload.
func (v Value) AsBool() (bool, bool) { return v.i != 0, v.kind == KindBool }

// AsString returns the String payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Any returns v as a native Go value: int64, float64, bool, string, or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindInteger:
		return v.i

	case KindFloat:
		return v.f

	case KindBool:
		return v.i != 0

	case KindString:
		return v.s

	default:
		return nil
	}
}

// String formats v the way the REPL and the run command print results.
// Strings are printed verbatim; use [Value.Inspect] for a quoted form.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)

	case KindFloat:
		return formatFloat(v.f)

	case KindBool:
		return strconv.FormatBool(v.i != 0)

	case KindString:
		return v.s

	default:
		return "null"
	}
}

// Inspect is like String but quotes string values.
func (v Value) Inspect() string {
	if v.kind == KindString {
		return `"` + v.s + `"`
	}

	return v.String()
}

// LogValue implements [slog.LogValuer].
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", v.kind.String()),
		slog.String("value", v.Inspect()),
	)
}

// formatFloat renders f so that it always scans back as a float literal.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
