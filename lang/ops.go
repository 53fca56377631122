package lang

import (
	"cmp"
	"log/slog"
)

// unary applies a prefix operator. '-' accepts only Integer operands and '!'
// only Bool operands.
func unary(op Token, v Value) (Value, error) {
	switch op.Kind {
	case TokenMinus:
		if i, ok := v.AsInt(); ok {
			return Int(-i), nil
		}

	case TokenBang:
		if b, ok := v.AsBool(); ok {
			return Bool(!b), nil
		}
	}

	return Null, ErrTypeMismatch.At(op).With(
		slog.String("operand", v.Kind().String()))
}

// binary applies an eagerly evaluated infix operator to its operands.
func binary(op Token, l, r Value) (Value, error) {
	switch op.Kind {
	case TokenPlus, TokenMinus, TokenStar, TokenSlash:
		return arithmetic(op, l, r)

	case TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		return ordering(op, l, r)

	case TokenEqualEqual, TokenBangEqual:
		return equality(op, l, r)

	default:
		return Null, mismatch(op, l, r)
	}
}

func arithmetic(op Token, l, r Value) (Value, error) {
	if a, ok := l.AsInt(); ok {
		if b, ok := r.AsInt(); ok {
			switch op.Kind {
			case TokenPlus:
				return Int(a + b), nil

			case TokenMinus:
				return Int(a - b), nil

			case TokenStar:
				return Int(a * b), nil

			default:
				if b == 0 {
					return Null, ErrDivisionByZero.At(op)
				}

				return Int(a / b), nil
			}
		}
	}

	if a, b, ok := promote(l, r); ok {
		switch op.Kind {
		case TokenPlus:
			return Float(a + b), nil

		case TokenMinus:
			return Float(a - b), nil

		case TokenStar:
			return Float(a * b), nil

		default:
			if b == 0 {
				return Null, ErrDivisionByZero.At(op)
			}

			return Float(a / b), nil
		}
	}

	if op.Kind == TokenPlus {
		if a, ok := l.AsString(); ok {
			if b, ok := r.AsString(); ok {
				return String(a + b), nil
			}
		}
	}

	return Null, mismatch(op, l, r)
}

func ordering(op Token, l, r Value) (Value, error) {
	c, ok := order(l, r)
	if !ok {
		return Null, mismatch(op, l, r)
	}

	switch op.Kind {
	case TokenLess:
		return Bool(c < 0), nil

	case TokenLessEqual:
		return Bool(c <= 0), nil

	case TokenGreater:
		return Bool(c > 0), nil

	default:
		return Bool(c >= 0), nil
	}
}

// order compares numeric operands. It reports false when either is not
// numeric.
func order(l, r Value) (int, bool) {
	if a, ok := l.AsInt(); ok {
		if b, ok := r.AsInt(); ok {
			return cmp.Compare(a, b), true
		}
	}

	if a, b, ok := promote(l, r); ok {
		return cmp.Compare(a, b), true
	}

	return 0, false
}

func equality(op Token, l, r Value) (Value, error) {
	eq, ok := equal(l, r)
	if !ok {
		return Null, mismatch(op, l, r)
	}

	if op.Kind == TokenBangEqual {
		eq = !eq
	}

	return Bool(eq), nil
}

// equal compares operands of the kinds that support equality and reports
// false for ok when the pair is not comparable.
func equal(l, r Value) (eq, ok bool) {
	switch {
	case l.kind == KindInteger && r.kind == KindInteger,
		l.kind == KindBool && r.kind == KindBool,
		l.kind == KindString && r.kind == KindString:
		return l == r, true
	}

	if a, b, ok := promote(l, r); ok {
		return a == b, true
	}

	return false, false
}

// promote converts a numeric pair with at least one Float operand to
// float64s.
func promote(l, r Value) (a, b float64, ok bool) {
	if l.kind == KindInteger && r.kind == KindInteger {
		return 0, 0, false
	}

	a, lok := numeric(l)
	b, rok := numeric(r)

	return a, b, lok && rok
}

func numeric(v Value) (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true

	case KindFloat:
		return v.f, true

	default:
		return 0, false
	}
}

func mismatch(op Token, l, r Value) *Error {
	return ErrTypeMismatch.At(op).With(
		slog.String("left", l.kind.String()),
		slog.String("right", r.kind.String()),
	)
}
