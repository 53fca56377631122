package lang

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Diagnostic renders err followed by the source line holding the offending
// token and a caret under its first column. Errors that carry no token, or
// whose token lies outside source, render as err.Error() alone.
func Diagnostic(source string, err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) || e.tok == nil {
		return err.Error()
	}

	lines := strings.Split(source, "\n")
	if e.tok.Line < 1 || e.tok.Line > len(lines) {
		return err.Error()
	}

	text := strings.TrimSuffix(lines[e.tok.Line-1], "\r")
	gutter := strconv.Itoa(e.tok.Line)

	var sb strings.Builder

	sb.WriteString(err.Error())
	sb.WriteString("\n ")
	sb.WriteString(gutter)
	sb.WriteString(" | ")
	sb.WriteString(text)
	sb.WriteString("\n ")
	sb.WriteString(strings.Repeat(" ", len(gutter)))
	sb.WriteString(" | ")

	// Preserve tabs so the caret lines up under the token.
	col := 1
	for _, r := range text {
		if col >= e.tok.Column {
			break
		}

		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}

		col++
	}

	if n := e.tok.Column - 1 - utf8.RuneCountInString(text); n > 0 {
		sb.WriteString(strings.Repeat(" ", n))
	}

	sb.WriteByte('^')

	return sb.String()
}
