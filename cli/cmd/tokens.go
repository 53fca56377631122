package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/ardnew/scrip/lang"
)

// Tokens scans a program and lists its tokens, one per line, with their
// positions and kinds.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := openSource(ctx, t.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return lang.ErrReadInput.
			With(slog.String("source", src.name)).
			Wrap(err)
	}

	tokens, err := lang.Scan(string(data))
	if err != nil {
		report(ctx, string(data), err)

		return lang.WrapError(err).With(slog.String("source", src.name))
	}

	w := tabwriter.NewWriter(outputFrom(ctx).stdout, 0, 4, 2, ' ', 0)

	for _, tok := range tokens {
		fmt.Fprintf(w, "%d:%d\t%s\t%s\n", tok.Line, tok.Column, tok.Kind, tok)
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
