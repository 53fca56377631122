package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_AddAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"let x = 1", modeEval},
		{"vars", modeCtrl},
		{"x + 1", modeEval},
		{"x + 1", modeEval},
		{"  ", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"let x = 1", modeEval},
		{"vars", modeCtrl},
		{"x + 1", modeEval},
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	for _, hist := range []*History{h, reloaded} {
		got := hist.Entries()
		if len(got) != len(want) {
			t.Fatalf("entries = %v, want %v", got, want)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestHistory_DuplicateMovesToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "E:b\nE:a\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistory_SameLineDifferentMode(t *testing.T) {
	h := NewHistory("")

	_ = h.Add("help", modeEval)
	_ = h.Add("help", modeCtrl)

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("one", modeEval)

	if e, err := h.Entry(0); err != nil || e.Line != "one" {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); err != ErrOutOfBounds {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestParseHistoryEntry(t *testing.T) {
	tests := []struct {
		line string
		want HistoryEntry
	}{
		{"E:x + 1", HistoryEntry{"x + 1", modeEval}},
		{"C:quit", HistoryEntry{"quit", modeCtrl}},
		{"bare", HistoryEntry{"bare", modeEval}},
	}

	for _, tt := range tests {
		if got := parseHistoryEntry(tt.line); got != tt.want {
			t.Errorf("parseHistoryEntry(%q) = %v, want %v", tt.line, got, tt.want)
		}

		if tt.line != "bare" && tt.want.String() != tt.line {
			t.Errorf("String() = %q, want %q", tt.want.String(), tt.line)
		}
	}
}
