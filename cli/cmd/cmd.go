package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scrip/lang"
	"github.com/ardnew/scrip/log"
	"github.com/ardnew/scrip/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" if there is none.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

type (
	searchPathKey struct{}
	globalsKey    struct{}
	optionsKey    struct{}
	outputKey     struct{}
)

// Global is a name bound in the root scope before a program runs.
type Global struct {
	Name  string
	Value lang.Value
}

// output holds the writers for results and diagnostics.
type output struct {
	stdout, stderr io.Writer
}

// WithSearchPath returns a new context.Context containing the directories
// searched for relative source paths that do not exist as given.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

// WithGlobals returns a new context.Context containing the bindings defined
// in every fresh environment.
func WithGlobals(ctx context.Context, globals []Global) context.Context {
	return context.WithValue(ctx, globalsKey{}, globals)
}

// WithOptions returns a new context.Context containing the options passed to
// the parser and evaluator.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// WithOutput returns a new context.Context whose commands write results to
// stdout and diagnostics to stderr.
func WithOutput(ctx context.Context, stdout, stderr io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, output{stdout, stderr})
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

func globalsFrom(ctx context.Context) []Global {
	globals, _ := ctx.Value(globalsKey{}).([]Global)

	return globals
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

func outputFrom(ctx context.Context) output {
	out, ok := ctx.Value(outputKey{}).(output)
	if !ok {
		return output{os.Stdout, os.Stderr}
	}

	return out
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is an open program input.
type source struct {
	io.ReadCloser

	name string
}

// openSource opens the named program. A relative name that does not exist
// in the working directory is looked up in each search path directory, and
// a name without the source extension is also tried with it.
func openSource(ctx context.Context, name string) (source, error) {
	if name == "" || name == stdinSource {
		return source{io.NopCloser(os.Stdin), "stdin"}, nil
	}

	path, ok := resolveSource(name, searchPathFrom(ctx))
	if !ok {
		return source{}, ErrSourceNotFound.
			With(slog.String("file", name),
				slog.Any("path", searchPathFrom(ctx)))
	}

	file, err := os.Open(path)
	if err != nil {
		return source{}, ErrOpenSource.
			With(slog.String("file", path)).
			Wrap(err)
	}

	log.DebugContext(ctx, "source opened", slog.String("file", path))

	return source{file, path}, nil
}

func resolveSource(name string, dirs []string) (string, bool) {
	candidates := []string{name}
	if !strings.HasSuffix(name, pkg.Extension) {
		candidates = append(candidates, name+pkg.Extension)
	}

	for _, c := range candidates {
		if isRegular(c) {
			return c, true
		}
	}

	if filepath.IsAbs(name) {
		return "", false
	}

	for _, dir := range dirs {
		for _, c := range candidates {
			if path := filepath.Join(dir, c); isRegular(path) {
				return path, true
			}
		}
	}

	return "", false
}

func isRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// load opens and parses the named program. The source text is returned even
// when parsing fails so that the caller can render a diagnostic.
func load(ctx context.Context, name string) (*lang.Program, string, error) {
	src, err := openSource(ctx, name)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var text strings.Builder

	prog, err := lang.ParseReader(ctx, io.TeeReader(src, &text), optionsFrom(ctx)...)
	if err != nil {
		return nil, text.String(), lang.WrapError(err).
			With(slog.String("file", src.name))
	}

	return prog, text.String(), nil
}

// NewEnv returns an environment holding the globals stored in ctx.
func NewEnv(ctx context.Context) *lang.Env {
	env := lang.NewEnv()

	for _, g := range globalsFrom(ctx) {
		env.Define(env.Root(), g.Name, g.Value)
	}

	return env
}

// report writes a diagnostic for err to the context's error output.
func report(ctx context.Context, text string, err error) {
	fmt.Fprintln(outputFrom(ctx).stderr, lang.Diagnostic(text, err))
}
