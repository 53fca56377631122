package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if got := logger.Level(); got != LevelInfo {
		t.Errorf("Level() = %v, want %v", got, LevelInfo)
	}

	if got := logger.Format(); got != FormatJSON {
		t.Errorf("Format() = %v, want %v", got, FormatJSON)
	}

	if logger.caller {
		t.Error("caller enabled by default")
	}

	if logger.pretty {
		t.Error("pretty enabled by default")
	}
}

func TestLogger_Zero_Discards(t *testing.T) {
	var logger Logger

	logger.Trace("trace")
	logger.Info("info", slog.Int("n", 1))
	logger.ErrorContext(t.Context(), "error")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	if got := logger.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With on zero Logger allocated a handler")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	tests := []struct {
		name   string
		log    func(Logger, string, ...slog.Attr)
		level  Level
		logged bool
	}{
		{"trace at trace", (Logger).Trace, LevelTrace, true},
		{"trace at debug", (Logger).Trace, LevelDebug, false},
		{"debug at debug", (Logger).Debug, LevelDebug, true},
		{"debug at info", (Logger).Debug, LevelInfo, false},
		{"info at info", (Logger).Info, LevelInfo, true},
		{"info at warn", (Logger).Info, LevelWarn, false},
		{"warn at warn", (Logger).Warn, LevelWarn, true},
		{"warn at error", (Logger).Warn, LevelError, false},
		{"error at error", (Logger).Error, LevelError, true},
		{"error at trace", (Logger).Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.level))

			tt.log(logger, "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v: %s", got, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_Trace_LevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace))

	logger.Trace("scope push")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}
}

func TestLogger_Make_WithTimeLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		check  func(string) bool
	}{
		{"rfc3339", "RFC3339", func(s string) bool { return strings.Contains(s, "T") }},
		{"rfc3339 nano", "rfc-3339-nano", func(s string) bool { return strings.Contains(s, ".") }},
		{"kitchen", "Kitchen", func(s string) bool { return strings.HasSuffix(s, "M") }},
		{"none", "none", func(s string) bool { return s == "" }},
		{"empty", "", func(s string) bool { return s == "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithTimeLayout(tt.layout))
			logger.Info("test")

			var rec map[string]any
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}

			ts, _ := rec["time"].(string)
			if !tt.check(ts) {
				t.Errorf("time = %q for layout %q", ts, tt.layout)
			}
		})
	}
}

func TestLogger_Make_WithCaller(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithCaller(true)).Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller does not name the test file: %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false)).Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("caller included when disabled: %s", buf.String())
	}
}

func TestLogger_Make_WithFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON))
		logger.Info("test message", slog.String("key", "value"))

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		if rec["msg"] != "test message" || rec["key"] != "value" {
			t.Errorf("unexpected record %v", rec)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText))
		logger.Info("test message", slog.String("key", "value"))

		if out := buf.String(); !strings.Contains(out, `msg="test message"`) ||
			!strings.Contains(out, "key=value") {
			t.Errorf("unexpected text output %q", out)
		}
	})
}

func TestLogger_Make_WithPretty(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf,
			WithFormat(FormatText), WithPretty(true), WithTimeLayout("none"))
		logger.Warn("careful", slog.Int("n", 3), slog.Bool("ok", false))

		// A bytes.Buffer is not a terminal, so no escapes are emitted.
		const want = "level=WARN msg=careful n=3 ok=false\n"
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf,
			WithFormat(FormatJSON), WithPretty(true), WithTimeLayout("none"))
		logger.Info("hello", slog.Group("g", slog.String("k", "v")))

		const want = "{\n  level: INFO,\n  msg: hello,\n  g: {\n    k: v\n  }\n}\n"
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf).With(slog.String("component", "eval"))

	logger.Info("first")
	logger.Info("second", slog.Int("n", 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	for _, line := range lines {
		if !strings.Contains(line, `"component":"eval"`) {
			t.Errorf("line missing attribute: %s", line)
		}
	}
}

func TestLogger_Wrap_KeepsBase(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithFormat(FormatText))
	wrapped := base.Wrap(WithLevel(LevelError))

	if wrapped.Format() != FormatText {
		t.Errorf("Wrap lost format: %v", wrapped.Format())
	}

	if base.Level() != LevelInfo {
		t.Errorf("Wrap mutated base level: %v", base.Level())
	}

	wrapped.Info("dropped")

	if buf.Len() != 0 {
		t.Errorf("wrapped logger wrote below its level: %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf)

	for i := range 16 {
		wg.Go(func() {
			logger.With(slog.Int("worker", i)).Info("tick")
			_ = logger.Wrap(WithLevel(LevelDebug)).Level()
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("got %d lines, want 16", n)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
