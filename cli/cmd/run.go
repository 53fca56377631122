package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/scrip/cli/cmd/repl"
	"github.com/ardnew/scrip/lang"
	"github.com/ardnew/scrip/log"
)

// Run evaluates a program file, or starts the REPL when no file is given.
type Run struct {
	File  string `arg:"" help:"Program file, or '-' for stdin. Starts the REPL when omitted." optional:""`
	Quiet bool   `       help:"Do not print the value of the last statement."                  short:"q"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ev := lang.NewEvaluator(NewEnv(ctx), optionsFrom(ctx)...)

	if r.File == "" {
		return repl.Run(ctx, ev, kongVar(ctx, CacheIdentifier),
			log.Default().With(slog.String("command", "repl")),
			optionsFrom(ctx)...)
	}

	prog, text, err := load(ctx, r.File)
	if err != nil {
		report(ctx, text, err)

		return ErrRun.With(slog.String("file", r.File)).Wrap(err)
	}

	v, err := ev.Run(ctx, prog)
	if err != nil {
		report(ctx, text, err)

		return ErrRun.With(slog.String("file", r.File)).Wrap(err)
	}

	log.DebugContext(ctx, "program finished",
		slog.String("file", r.File),
		slog.Any("result", v))

	if r.Quiet || v.IsNull() {
		return nil
	}

	if _, err := fmt.Fprintln(outputFrom(ctx).stdout, v); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
