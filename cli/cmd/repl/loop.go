package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ardnew/scrip/lang"
	"github.com/ardnew/scrip/log"
)

// Loop reads r line by line, evaluating each line with ev and writing the
// result or a diagnostic to w. Errors do not stop the loop. A line starting
// with ':' is a command (":vars", ":reset", ":quit").
//
// Loop returns nil at the end of input or on ":quit".
func Loop(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	ev *lang.Evaluator,
	logger log.Logger,
	opts ...lang.Option,
) error {
	s := newSession(ev, logger, opts...)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, ":"):
			quit, err := s.command(w, line[1:])
			if err != nil {
				fmt.Fprintln(w, err)
			}

			if quit {
				return nil
			}

		default:
			v, err := s.eval(ctx, line)
			if err != nil {
				fmt.Fprintln(w, lang.Diagnostic(line, err))

				continue
			}

			fmt.Fprintln(w, v.Inspect())
		}
	}

	return scanner.Err()
}

// command runs a control command for the line loop.
func (s *session) command(w io.Writer, input string) (quit bool, err error) {
	cmd, err := lookupCommand(input)
	if err != nil {
		return false, err
	}

	switch cmd {
	case cmdHelp:
		fmt.Fprint(w, helpMessage())

	case cmdVars:
		fmt.Fprintln(w, s.vars())

	case cmdReset:
		s.reset()

	case cmdClear:
		// A plain stream has no screen to clear.

	case cmdQuit:
		return true, nil
	}

	return false, nil
}
