package lang

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"
)

// FuzzScan checks that scanning never panics and that every successful scan
// ends with exactly one EOF.
func FuzzScan(f *testing.F) {
	f.Add("let x = 1")
	f.Add(`"string"`)
	f.Add("// comment\n")
	f.Add("1.5 2. .3")
	f.Add("a && b || !c")
	f.Add("\"unterminated")
	f.Add("größe = 1")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		tokens, err := Scan(input)
		if err != nil {
			if !errors.Is(err, ErrScan) {
				t.Fatalf("Scan(%q) error %v is not a scan error", input, err)
			}

			return
		}

		for i, tok := range tokens {
			if (tok.Kind == TokenEOF) != (i == len(tokens)-1) {
				t.Fatalf("Scan(%q): EOF at %d of %d", input, i, len(tokens))
			}
		}
	})
}

// FuzzParse checks that accepted programs format to a fixed point and that
// evaluation of them terminates cleanly under a deadline.
func FuzzParse(f *testing.F) {
	for _, src := range roundTripPrograms {
		f.Add(src)
	}

	f.Add("1 +")
	f.Add("((((1))))")
	f.Add("let x = 1; x = x / 0")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		prog, err := Parse(t.Context(), input)
		if err != nil {
			if !errors.Is(err, ErrScan) && !errors.Is(err, ErrParse) {
				t.Fatalf("Parse(%q) error %v has no phase", input, err)
			}

			return
		}

		var first bytes.Buffer
		if err := prog.Format(t.Context(), &first, 2); err != nil {
			t.Fatalf("Format error: %v", err)
		}

		again, err := Parse(t.Context(), first.String())
		if err != nil {
			t.Fatalf("Parse(Format(%q)) error: %v\n%s", input, err, first.String())
		}

		if prog.String() != again.String() {
			t.Fatalf("round trip of %q differs: %q vs %q", input, prog.String(), again.String())
		}

		ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
		defer cancel()

		ev := NewEvaluator(nil)
		if _, err := ev.Run(ctx, prog); err != nil && !errors.Is(err, ErrRuntime) {
			t.Fatalf("Run(%q) error %v is not a runtime error", input, err)
		}

		if d := ev.Env().Depth(); d != 1 {
			t.Fatalf("Run(%q) left %d scopes", input, d)
		}
	})
}
