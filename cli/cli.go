package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scrip/cli/cmd"
	"github.com/ardnew/scrip/lang"
	"github.com/ardnew/scrip/log"
	"github.com/ardnew/scrip/pkg"
)

// CLI is the top-level command-line interface for scrip.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Define   []string `help:"Define a global variable NAME as the value of expression EXPR."    placeholder:"NAME=EXPR" short:"D"`
	Path     []string `help:"Directory searched for program files, before those in SCRIP_PATH." placeholder:"DIR"       short:"I" type:"path"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum syntactic nesting depth."`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run a program, or start the REPL."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Format a program."`
	Tokens cmd.Tokens `cmd:""                    help:"List the tokens of a program."`
}

// Run executes the scrip CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(append([]kong.Group{cli.Log.group()}, cli.Pprof.groups()...)),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath+pkg.Extension),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	globals, err := defines(cli.Define)
	if err != nil {
		return err
	}

	stdout, stderr := ktx.Stdout, ktx.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Path))
	ctx = cmd.WithGlobals(ctx, globals)
	ctx = cmd.WithOutput(ctx, stdout, stderr)
	ctx = cmd.WithOptions(ctx,
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(cli.MaxDepth),
	)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
