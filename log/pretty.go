package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used for pretty output. Styles are bound to a
// renderer for the output writer, so color is dropped automatically when the
// writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, ts, null lipgloss.Style

	trace, debug, info, warn, err lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		yes:  fg("2"),
		no:   fg("1"),
		dur:  fg("5"),
		ts:   fg("4"),
		null: fg("8"),

		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyCore is the state shared by both pretty handlers.
type prettyCore struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors palette
	attrs  []slog.Attr
}

func newPrettyCore(w io.Writer, opts *slog.HandlerOptions) prettyCore {
	return prettyCore{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
	}
}

func (c prettyCore) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if c.opts.Level != nil {
		threshold = c.opts.Level.Level()
	}

	return level >= threshold
}

func (c prettyCore) withAttrs(attrs []slog.Attr) prettyCore {
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], attrs...)

	return c
}

// header returns the built-in attributes of r after ReplaceAttr, in output
// order: time, level, source, message.
func (c prettyCore) header(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if c.opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	if c.opts.ReplaceAttr == nil {
		return attrs
	}

	out := attrs[:0]

	for _, a := range attrs {
		if a = c.opts.ReplaceAttr(nil, a); !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	return out
}

func (c prettyCore) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.w.Write(buf.Bytes())

	return err
}

func (c prettyCore) value(v slog.Value, level bool) string {
	v = v.Resolve()

	if level {
		if l, ok := v.Any().(slog.Level); ok {
			return c.colors.level(l).Render(l.String())
		}

		return c.colors.level(levelFromName(v.String())).Render(v.String())
	}

	switch v.Kind() {
	case slog.KindString:
		return c.colors.str.Render(v.String())

	case slog.KindInt64:
		return c.colors.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return c.colors.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return c.colors.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return c.colors.yes.Render("true")
		}

		return c.colors.no.Render("false")

	case slog.KindDuration:
		return c.colors.dur.Render(v.Duration().String())

	case slog.KindTime:
		return c.colors.ts.Render(v.Time().Format("2006-01-02T15:04:05Z07:00"))

	default:
		if v.Any() == nil {
			return c.colors.null.Render("null")
		}

		return c.colors.str.Render(v.String())
	}
}

// levelFromName maps an upper-case level name written by ReplaceAttr back to
// a level for coloring.
func levelFromName(name string) slog.Level {
	var l Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}

	return slog.Level(l)
}

// prettyTextHandler writes colorized key=value lines.
type prettyTextHandler struct {
	prettyCore
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{prettyCore: newPrettyCore(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		h.writeAttr(buf, "", a)
	}

	for _, a := range h.attrs {
		h.writeAttr(buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, "", a)

		return true
	})

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{prettyCore: h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(string) slog.Handler { return h }

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		for _, g := range v.Group() {
			h.writeAttr(buf, prefix+a.Key+".", g)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.colors.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.value(v, a.Key == slog.LevelKey && prefix == ""))
}

// prettyJSONHandler writes colorized, indented JSON-like objects.
type prettyJSONHandler struct {
	prettyCore
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{prettyCore: newPrettyCore(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	first := true

	buf.WriteString("{")

	for _, a := range h.header(r) {
		h.writeAttr(buf, 1, a, &first)
	}

	for _, a := range h.attrs {
		h.writeAttr(buf, 1, a, &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, 1, a, &first)

		return true
	})

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{prettyCore: h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(string) slog.Handler { return h }

func (h *prettyJSONHandler) writeAttr(buf *bytes.Buffer, depth int, a slog.Attr, first *bool) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteByte('\n')

	for range depth {
		buf.WriteString("  ")
	}

	buf.WriteString(h.colors.key.Render(a.Key))
	buf.WriteString(": ")

	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		buf.WriteString(h.value(v, a.Key == slog.LevelKey && depth == 1))

		return
	}

	buf.WriteString("{")

	inner := true
	for _, g := range v.Group() {
		h.writeAttr(buf, depth+1, g, &inner)
	}

	buf.WriteByte('\n')

	for range depth {
		buf.WriteString("  ")
	}

	buf.WriteString("}")
}
