// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Attributes added with [Logger.With] are included in every subsequent
// message, and [Logger.Wrap] derives a logger with different options:
//
//	logger = logger.With(slog.String("phase", "parse"))
//	quiet := logger.Wrap(log.WithLevel(log.LevelError))
//
// # Levels
//
// In addition to the four [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] and is used for per-node interpreter events such as scope
// push and pop. Messages below the configured level are discarded before
// any attribute is formatted.
//
// The zero [Logger] discards everything, so a component may hold one by
// value and log unconditionally.
//
// # Output
//
// Two formats are supported: [FormatJSON] (default) and [FormatText].
// [WithPretty] selects colorized variants of both that are rendered with
// lipgloss; color is emitted only when the output is a terminal.
//
// # Package-level logging
//
// Functions such as [Info] and [ErrorContext] write to a default logger
// that writes JSON to standard output; [Config] reconfigures it.
// Context-unaware functions use [DefaultContextProvider], which returns
// [context.TODO] by default.
package log
