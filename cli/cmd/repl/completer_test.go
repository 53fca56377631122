package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/scrip/lang"
	"github.com/ardnew/scrip/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "f(fo", 4, "fo", 2, 4},
		{"after_comma", "f(a, fo", 7, "fo", 5, 7},
		{"after_brace", "{fo", 3, "fo", 1, 3},
		{"after_and", "a&&fo", 5, "fo", 3, 5},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_assign", "x=fo", 4, "fo", 2, 4},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		{"unicode", "größe", 7, "größe", 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		want  bool
	}{
		{`let s = "wh`, 11, true},
		{`let s = "a" + wh`, 16, false},
		{`wh`, 2, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.pos); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.pos, got, tt.want)
		}
	}
}

func TestEvalCandidates(t *testing.T) {
	got := evalCandidates([]string{"while_count", "x", "let"})

	if !slices.IsSorted(got) {
		t.Errorf("candidates not sorted: %v", got)
	}

	for _, want := range []string{"let", "while", "while_count", "x"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates %v missing %q", got, want)
		}
	}

	if n := len(got); n != len(slices.Compact(slices.Clone(got))) {
		t.Errorf("candidates contain duplicates: %v", got)
	}
}

func TestComputeMatches(t *testing.T) {
	env := lang.NewEnv()
	env.Define(env.Root(), "counter", lang.Int(1))
	env.Define(env.Root(), "total", lang.Int(2))

	m := newModel(t.Context(),
		newSession(lang.NewEvaluator(env), log.Logger{}),
		NewHistory(""))

	tests := []struct {
		name  string
		mode  inputMode
		input string
		first string
		none  bool
	}{
		{"root name", modeEval, "1 + cou", "counter", false},
		{"keyword", modeEval, "whi", "while", false},
		{"empty word", modeEval, "1 + ", "", true},
		{"inside string", modeEval, `"cou`, "", true},
		{"command", modeCtrl, "res", "reset", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := m
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, end := m.computeMatches()
			if tt.none {
				if len(matches) != 0 {
					t.Errorf("got matches %v, want none", matches)
				}

				return
			}

			if len(matches) == 0 || matches[0].Str != tt.first {
				t.Fatalf("best match for %q = %v, want %q", tt.input, matches, tt.first)
			}

			if end != len(tt.input) {
				t.Errorf("word end = %d, want %d", end, len(tt.input))
			}
		})
	}
}
