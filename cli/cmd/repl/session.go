package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/scrip/lang"
	"github.com/ardnew/scrip/log"
)

// command is a REPL control command.
type command int

const (
	cmdHelp command = iota
	cmdVars
	cmdReset
	cmdClear
	cmdQuit
)

// ctrlCommands are the available control-mode commands, in help order.
var ctrlCommands = []string{"help", "vars", "reset", "clear", "quit"}

var commandAlias = map[string]command{
	"h": cmdHelp, "help": cmdHelp,
	"v": cmdVars, "vars": cmdVars,
	"reset": cmdReset,
	"c": cmdClear, "clear": cmdClear,
	"q": cmdQuit, "quit": cmdQuit, "exit": cmdQuit,
}

func lookupCommand(input string) (command, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(input), " ")

	cmd, ok := commandAlias[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q (try 'help')", ErrUnknownCommand, name)
	}

	return cmd, nil
}

func helpMessage() string {
	return `
Commands (press Esc to toggle mode):

  help     Print this message
  vars     List variables in the root scope
  reset    Discard all variables except those defined on the command line
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type statements to evaluate them; variables persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C to interrupt a running evaluation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// binding is a root-scope name and its value.
type binding struct {
	name  string
	value lang.Value
}

// session holds the interpreter state shared by the terminal UI and the
// line loop. The environment persists across inputs.
type session struct {
	ev      *lang.Evaluator
	opts    []lang.Option
	logger  log.Logger
	initial []binding
}

func newSession(ev *lang.Evaluator, logger log.Logger, opts ...lang.Option) *session {
	s := &session{ev: ev, logger: logger, opts: opts}
	s.initial = s.bindings()

	return s
}

// eval parses and runs one input in the root scope.
func (s *session) eval(ctx context.Context, input string) (lang.Value, error) {
	s.logger.TraceContext(ctx, "repl eval", slog.String("input", input))

	prog, err := lang.Parse(ctx, input, s.opts...)
	if err != nil {
		return lang.Null, err
	}

	v, err := s.ev.Run(ctx, prog)
	if err != nil {
		s.logger.TraceContext(ctx, "repl eval failed", slog.Any("error", err))

		return lang.Null, err
	}

	s.logger.TraceContext(ctx, "repl eval result", slog.Any("result", v))

	return v, nil
}

func (s *session) bindings() []binding {
	env := s.ev.Env()
	names := env.Names(env.Root())
	out := make([]binding, 0, len(names))

	for _, name := range names {
		v, _ := env.Lookup(env.Root(), name)
		out = append(out, binding{name, v})
	}

	return out
}

// names returns the root-scope names for completion.
func (s *session) names() []string {
	env := s.ev.Env()

	return env.Names(env.Root())
}

// vars renders the root scope, one binding per line.
func (s *session) vars() string {
	bindings := s.bindings()
	if len(bindings) == 0 {
		return "(no variables)"
	}

	width := 0
	for _, b := range bindings {
		width = max(width, len(b.name))
	}

	var sb strings.Builder

	for i, b := range bindings {
		if i > 0 {
			sb.WriteByte('\n')
		}

		fmt.Fprintf(&sb, "  %-*s = %s", width, b.name, b.value.Inspect())
	}

	return sb.String()
}

// reset restores the environment to the bindings it held when the session
// started.
func (s *session) reset() {
	env := s.ev.Env()
	env.Reset()

	for _, b := range s.initial {
		env.Define(env.Root(), b.name, b.value)
	}
}
