package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/scrip/cli/cmd"
	"github.com/ardnew/scrip/lang"
)

var (
	ErrDefineSyntax = cmd.NewError("definition must have the form NAME=EXPR")
	ErrDefineName   = cmd.NewError("definition name is not an identifier")
	ErrDefineExpr   = cmd.NewError("invalid definition expression")
	ErrDefineType   = cmd.NewError("unsupported definition value")
)

// defines parses each NAME=EXPR definition into a global binding.
func defines(defs []string) ([]cmd.Global, error) {
	globals := make([]cmd.Global, 0, len(defs))

	for _, def := range defs {
		g, err := define(def)
		if err != nil {
			return nil, err
		}

		globals = append(globals, g)
	}

	return globals, nil
}

// define evaluates a single NAME=EXPR definition. EXPR is an expr-lang
// expression; env(NAME) returns the value of an environment variable.
func define(def string) (cmd.Global, error) {
	name, source, ok := strings.Cut(def, "=")
	if !ok {
		return cmd.Global{}, ErrDefineSyntax.With(slog.String("define", def))
	}

	name = strings.TrimSpace(name)
	if !isIdentifier(name) {
		return cmd.Global{}, ErrDefineName.With(slog.String("name", name))
	}

	env := map[string]any{"env": os.Getenv}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return cmd.Global{}, ErrDefineExpr.
			With(slog.String("name", name), slog.String("source", source)).
			Wrap(err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return cmd.Global{}, ErrDefineExpr.
			With(slog.String("name", name), slog.String("source", source)).
			Wrap(err)
	}

	v, err := toValue(result)
	if err != nil {
		return cmd.Global{}, ErrDefineType.
			With(slog.String("name", name)).
			Wrap(err)
	}

	return cmd.Global{Name: name, Value: v}, nil
}

// isIdentifier reports whether s scans as exactly one identifier.
func isIdentifier(s string) bool {
	tokens, err := lang.Scan(s)

	return err == nil && len(tokens) == 2 &&
		tokens[0].Kind == lang.TokenIdentifier && tokens[0].Lexeme == s
}

func toValue(x any) (lang.Value, error) {
	switch x := x.(type) {
	case nil:
		return lang.Null, nil
	case int:
		return lang.Int(int64(x)), nil
	case int64:
		return lang.Int(x), nil
	case float64:
		return lang.Float(x), nil
	case bool:
		return lang.Bool(x), nil
	case string:
		return lang.String(x), nil
	default:
		return lang.Null, fmt.Errorf("%T", x)
	}
}
