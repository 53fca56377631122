package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/scrip/lang"
)

// Fmt parses a program and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical scrip syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Print the syntax tree as an indented outline."`
}

// Native formats a program as canonical, fully parenthesized scrip syntax.
// An indent of zero writes the whole program on one line.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, "native", f.Source, func(p *lang.Program, w io.Writer) error {
		return p.Format(ctx, w, f.Indent)
	})
}

// JSON writes the syntax tree of a program as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.Source, func(p *lang.Program, w io.Writer) error {
		return p.FormatJSON(ctx, w, j.Indent)
	})
}

// YAML writes the syntax tree of a program as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.Source, func(p *lang.Program, w io.Writer) error {
		return p.FormatYAML(ctx, w, y.Indent)
	})
}

// AST prints the syntax tree of a program as an indented outline.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, "ast", a.Source, func(p *lang.Program, w io.Writer) error {
		return p.Print(w)
	})
}

func format(
	ctx context.Context,
	name, file string,
	write func(*lang.Program, io.Writer) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, text, err := load(ctx, file)
	if err != nil {
		report(ctx, text, err)

		return lang.WrapError(err).With(slog.String("format", name))
	}

	if err := write(prog, outputFrom(ctx).stdout); err != nil {
		return ErrWriteOutput.With(slog.String("format", name)).Wrap(err)
	}

	return nil
}
