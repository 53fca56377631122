package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tok := Token{Kind: TokenIdentifier, Lexeme: "foo", Line: 3, Column: 7}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel",
			err:  ErrUndefinedVariable,
			want: "runtime error: undefined variable",
		},
		{
			name: "phase",
			err:  ErrRuntime,
			want: "runtime error",
		},
		{
			name: "with token",
			err:  ErrUndefinedVariable.At(tok),
			want: `runtime error: undefined variable "foo" (line 3)`,
		},
		{
			name: "with attrs and cause",
			err:  ErrReadInput.Wrap(io.ErrUnexpectedEOF).With(slog.String("source", "stdin")),
			want: "input error: failed to read input, source=stdin: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrTypeMismatch.At(Token{Kind: TokenPlus, Lexeme: "+"}))

	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("wrapped error does not match its kind")
	}

	if !errors.Is(err, ErrRuntime) {
		t.Error("wrapped error does not match its phase")
	}

	if errors.Is(err, ErrUndefinedVariable) {
		t.Error("wrapped error matches an unrelated kind")
	}

	if errors.Is(ErrTypeMismatch, ErrUndefinedVariable) {
		t.Error("distinct sentinels match")
	}
}

func TestErrorReadInputPhase(t *testing.T) {
	err := ErrReadInput.Wrap(io.ErrUnexpectedEOF)

	if !errors.Is(err, ErrInput) {
		t.Error("read failure does not match ErrInput")
	}

	for _, phase := range []*Error{ErrScan, ErrParse, ErrRuntime} {
		if errors.Is(err, phase) {
			t.Errorf("read failure matches %v", phase)
		}
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("read failure does not match its cause")
	}
}

func TestErrorModifiersDoNotMutate(t *testing.T) {
	_ = ErrNoPrefixRule.At(Token{Lexeme: "x"}).With(slog.Int("n", 1))

	if _, ok := ErrNoPrefixRule.Token(); ok {
		t.Error("At modified the sentinel")
	}

	if got := ErrNoPrefixRule.Error(); got != "parse error: no prefix rule" {
		t.Errorf("sentinel Error() = %q after With", got)
	}
}

func TestWrapError(t *testing.T) {
	e := WrapError(io.EOF)
	if !errors.Is(e, io.EOF) {
		t.Error("WrapError does not unwrap to its cause")
	}

	if e.Phase() != nil {
		t.Errorf("foreign error has phase %v", e.Phase())
	}

	orig := ErrDivisionByZero.At(Token{Lexeme: "/"})
	if got := WrapError(fmt.Errorf("ctx: %w", orig)); got != orig {
		t.Error("WrapError did not return the *Error in the chain")
	}
}

func TestDiagnostic(t *testing.T) {
	source := "let a = 1\nlet b = a +\n"

	_, err := Parse(t.Context(), source)
	if err == nil {
		t.Fatal("Parse succeeded")
	}

	got := Diagnostic(source, err)
	lines := strings.Split(got, "\n")

	if len(lines) != 3 {
		t.Fatalf("Diagnostic has %d lines, want 3:\n%s", len(lines), got)
	}

	if lines[1] != " 2 | let b = a +" {
		t.Errorf("source line = %q", lines[1])
	}

	// The offending token is the newline after '+', in column 12.
	if want := "   | " + strings.Repeat(" ", 11) + "^"; lines[2] != want {
		t.Errorf("caret line = %q, want %q", lines[2], want)
	}
}

func TestDiagnosticWithoutToken(t *testing.T) {
	if got := Diagnostic("x", io.EOF); got != "EOF" {
		t.Errorf("Diagnostic = %q, want %q", got, "EOF")
	}

	if got := Diagnostic("x", nil); got != "" {
		t.Errorf("Diagnostic(nil) = %q, want empty", got)
	}
}
