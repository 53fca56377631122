package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scrip/lang"
	"github.com/ardnew/scrip/log"
)

// resolveTimeout bounds the evaluation of a configuration script.
const resolveTimeout = 5 * time.Second

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as scrip programs.
//
//	kong.Configuration(resolve(ctx), "/path/to/config.scrip")
//
// The program is evaluated and each binding left in its root scope becomes
// the value of the flag with the same name. Underscores in binding names
// stand for hyphens in flag names, and null bindings are ignored:
//
//	let log_level = "debug"
//	let log_pretty = true
//
// is equivalent to --log-level=debug --log-pretty. Command-line flags
// override configured values.
//
// A script that fails to load is logged and contributes nothing, so a broken
// configuration file never prevents the CLI from starting.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
		defer cancel()

		prog, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		ev := lang.NewEvaluator(nil)
		if _, err := ev.Run(ctx, prog); err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		return rootConfig(ev.Env()), nil
	}
}

// rootConfig converts the root bindings of env to flag values. Kong parses
// numbers from strings.
func rootConfig(env *lang.Env) config {
	cfg := config{}

	for _, name := range env.Names(env.Root()) {
		v, _ := env.Lookup(env.Root(), name)

		switch v.Kind() {
		case lang.KindNull:
			continue

		case lang.KindInteger, lang.KindFloat:
			cfg[name] = v.String()

		default:
			cfg[name] = v.Any()
		}
	}

	return cfg
}

// config implements [kong.Resolver] over the bindings of a configuration
// script.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}
