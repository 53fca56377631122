package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDefault_Config(t *testing.T) {
	saved := defaultLog
	t.Cleanup(func() { defaultLog = saved })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelTrace), WithFormat(FormatText),
		WithTimeLayout("none"))

	Trace("one")
	Debug("two")
	InfoContext(t.Context(), "three", slog.Int("n", 3))
	With(slog.String("pkg", "test")).Warn("four")
	Error("five")

	want := []string{
		"level=TRACE msg=one",
		"level=DEBUG msg=two",
		"level=INFO msg=three n=3",
		"level=WARN msg=four pkg=test",
		"level=ERROR msg=five",
	}

	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if Default().Level() != LevelTrace {
		t.Errorf("Default().Level() = %v", Default().Level())
	}
}
