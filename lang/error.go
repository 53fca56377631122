package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Phase sentinels. Every error produced by this package matches exactly one
// of these with [errors.Is].
var (
	ErrScan    = newPhase("scan error")
	ErrParse   = newPhase("parse error")
	ErrRuntime = newPhase("runtime error")
	ErrInput   = newPhase("input error")
)

// Input errors.
var ErrReadInput = ErrInput.kind("failed to read input")

// Scan errors.
var (
	ErrInvalidCharacter   = ErrScan.kind("invalid character")
	ErrUnterminatedString = ErrScan.kind("unterminated string")
)

// Parse errors.
var (
	ErrUnexpectedToken         = ErrParse.kind("unexpected token")
	ErrInvalidAssignmentTarget = ErrParse.kind("invalid assignment target")
	ErrNoPrefixRule            = ErrParse.kind("no prefix rule")
	ErrNoInfixContinuation     = ErrParse.kind("no infix continuation")
	ErrMalformedNumericLiteral = ErrParse.kind("malformed numeric literal")
	ErrMaxDepthExceeded        = ErrParse.kind("maximum nesting depth exceeded")
)

// Runtime errors.
var (
	ErrUndefinedVariable    = ErrRuntime.kind("undefined variable")
	ErrTypeMismatch         = ErrRuntime.kind("type mismatch")
	ErrNotCallable          = ErrRuntime.kind("not callable")
	ErrInvalidLoopIncrement = ErrRuntime.kind("invalid loop increment")
	ErrDivisionByZero       = ErrRuntime.kind("division by zero")
	ErrInterrupted          = ErrRuntime.kind("evaluation interrupted")
)

// Error represents a scan, parse, or runtime failure with optional structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // wrapped cause
	phase *Error      // one of the phase sentinels
	base  *Error      // kind sentinel this error was derived from
	tok   *Token      // offending token, if any
	attrs []slog.Attr // attributes for structured logging
}

func newPhase(msg string) *Error {
	e := &Error{msg: msg}
	e.phase = e
	e.base = e

	return e
}

func (e *Error) kind(msg string) *Error {
	k := &Error{msg: msg, phase: e.phase}
	k.base = k

	return k
}

// WrapError converts err into an *Error. An *Error anywhere in the chain is
// returned as-is.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<phase>: <msg> <token> (line N), k=v: <cause>",
// with each part present only when set.
func (e *Error) Error() string {
	var sb strings.Builder

	if e.phase != nil && e.phase != e.base {
		sb.WriteString(e.phase.msg)
		sb.WriteString(": ")
	}

	sb.WriteString(e.msg)

	if e.tok != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(e.tok.String())
		sb.WriteString(" (line ")
		sb.WriteString(strconv.Itoa(e.tok.Line))
		sb.WriteByte(')')
	}

	for _, a := range e.attrs {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the phase or kind sentinel e derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t == e || (t == e.base && t != nil) || (t == e.phase && t != nil)
}

// Phase returns the phase sentinel (ErrScan, ErrParse, ErrRuntime, or
// ErrInput), or nil for a wrapped foreign error.
func (e *Error) Phase() *Error { return e.phase }

// Token returns the offending token and whether one was recorded.
func (e *Error) Token() (Token, bool) {
	if e.tok == nil {
		return Token{}, false
	}

	return *e.tok, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.phase != nil && e.phase != e {
		attrs = append(attrs, slog.String("phase", e.phase.msg))
	}

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.tok != nil {
		attrs = append(attrs, slog.Any("token", *e.tok))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// At records the offending token.
func (e *Error) At(tok Token) *Error {
	c := e.clone()
	c.tok = &tok

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}
