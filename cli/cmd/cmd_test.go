package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/scrip/lang"
)

// writeSource writes text to name under dir and returns its path.
func writeSource(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// testContext returns a context whose commands write to the returned
// buffers.
func testContext(t *testing.T) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	return WithOutput(t.Context(), &stdout, &stderr), &stdout, &stderr
}

func TestResolveSource(t *testing.T) {
	lib := t.TempDir()
	local := t.TempDir()

	inLib := writeSource(t, lib, "util.scrip", "1")
	inLocal := writeSource(t, local, "main.scrip", "2")

	tests := []struct {
		name   string
		source string
		dirs   []string
		want   string
		found  bool
	}{
		{"exact path", inLocal, nil, inLocal, true},
		{"extension added", strings.TrimSuffix(inLocal, ".scrip"), nil, inLocal, true},
		{"search path", "util.scrip", []string{local, lib}, inLib, true},
		{"search path without extension", "util", []string{lib}, inLib, true},
		{"absolute path not searched", filepath.Join(local, "util.scrip"), []string{lib}, "", false},
		{"missing", "absent", []string{local, lib}, "", false},
		{"directory is not a source", lib, nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveSource(tt.source, tt.dirs)
			if got != tt.want || ok != tt.found {
				t.Errorf("resolveSource(%q) = %q, %v; want %q, %v",
					tt.source, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestOpenSource_NotFound(t *testing.T) {
	ctx := WithSearchPath(t.Context(), []string{t.TempDir()})

	_, err := openSource(ctx, "missing")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("openSource error = %v, want %v", err, ErrSourceNotFound)
	}
}

func TestNewEnv(t *testing.T) {
	ctx := WithGlobals(t.Context(), []Global{
		{Name: "answer", Value: lang.Int(42)},
		{Name: "name", Value: lang.String("scrip")},
	})

	env := NewEnv(ctx)

	for name, want := range map[string]lang.Value{
		"answer": lang.Int(42),
		"name":   lang.String("scrip"),
	} {
		got, ok := env.Lookup(env.Root(), name)
		if !ok || got != want {
			t.Errorf("Lookup(%q) = %v, %v; want %v", name, got, ok, want)
		}
	}

	if _, ok := NewEnv(t.Context()).Lookup(env.Root(), "answer"); ok {
		t.Error("globals leaked into an environment without them")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		source string
		quiet  bool
		want   string
	}{
		{"prints last value", "let x = 6\nx * 7", false, "42\n"},
		{"prints strings unquoted", `"hello"`, false, "hello\n"},
		{"null not printed", "let x = 1", false, ""},
		{"quiet", "1 + 1", true, ""},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, stderr := testContext(t)
			file := writeSource(t, dir, strings.Repeat("p", i+1)+".scrip", tt.source)

			r := &Run{File: file, Quiet: tt.quiet}
			if err := r.Run(ctx); err != nil {
				t.Fatalf("Run error: %v", err)
			}

			if got := stdout.String(); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}

			if stderr.Len() != 0 {
				t.Errorf("stderr = %q, want empty", stderr.String())
			}
		})
	}
}

func TestRun_Globals(t *testing.T) {
	ctx, stdout, _ := testContext(t)
	ctx = WithGlobals(ctx, []Global{{Name: "n", Value: lang.Int(20)}})

	file := writeSource(t, t.TempDir(), "main.scrip", "n + 1")

	if err := (&Run{File: file}).Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got := stdout.String(); got != "21\n" {
		t.Errorf("stdout = %q, want %q", got, "21\n")
	}
}

func TestRun_SearchPath(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "lib.scrip", "2 * 3")

	ctx, stdout, _ := testContext(t)
	ctx = WithSearchPath(ctx, []string{dir})

	if err := (&Run{File: "lib"}).Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got := stdout.String(); got != "6\n" {
		t.Errorf("stdout = %q, want %q", got, "6\n")
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		source string
		kind   error
		diag   string
	}{
		{
			name:   "runtime",
			source: "let a = 1\nb",
			kind:   lang.ErrUndefinedVariable,
			diag:   "runtime error: undefined variable \"b\" (line 2)\n 2 | b\n   | ^\n",
		},
		{
			name:   "parse",
			source: "1 +",
			kind:   lang.ErrParse,
		},
		{
			name:   "scan",
			source: `"open`,
			kind:   lang.ErrScan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, stderr := testContext(t)
			file := writeSource(t, dir, tt.name+".scrip", tt.source)

			err := (&Run{File: file}).Run(ctx)
			if !errors.Is(err, ErrRun) {
				t.Errorf("error = %v, want %v", err, ErrRun)
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}

			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}

			if stderr.Len() == 0 {
				t.Error("no diagnostic written")
			}

			if tt.diag != "" && stderr.String() != tt.diag {
				t.Errorf("diagnostic =\n%s\nwant\n%s", stderr.String(), tt.diag)
			}
		})
	}
}

func TestFmt(t *testing.T) {
	file := writeSource(t, t.TempDir(), "main.scrip", "let x = 1 + 2 * 3")

	tests := []struct {
		name string
		run  func(context.Context) error
		want []string
	}{
		{
			name: "native",
			run:  (&Native{Source: file, Indent: 2}).Run,
			want: []string{"let x = (1 + (2 * 3))\n"},
		},
		{
			name: "json",
			run:  (&JSON{Source: file, Indent: 2}).Run,
			want: []string{`"node": "let"`, `"op": "*"`},
		},
		{
			name: "yaml",
			run:  (&YAML{Source: file, Indent: 2}).Run,
			want: []string{"node: program", "node: binary"},
		},
		{
			name: "ast",
			run:  (&AST{Source: file}).Run,
			want: []string{"Program\n  Let x\n    Binary +\n      Integer 1\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, _ := testContext(t)

			if err := tt.run(ctx); err != nil {
				t.Fatalf("Run error: %v", err)
			}

			for _, want := range tt.want {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("output missing %q:\n%s", want, stdout.String())
				}
			}
		})
	}
}

func TestFmt_ParseError(t *testing.T) {
	ctx, stdout, stderr := testContext(t)
	file := writeSource(t, t.TempDir(), "bad.scrip", "let = 1")

	err := (&Native{Source: file, Indent: 2}).Run(ctx)
	if !errors.Is(err, lang.ErrParse) {
		t.Errorf("error = %v, want %v", err, lang.ErrParse)
	}

	if stdout.Len() != 0 || stderr.Len() == 0 {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
}

func TestTokens(t *testing.T) {
	ctx, stdout, _ := testContext(t)
	file := writeSource(t, t.TempDir(), "main.scrip", "let x = 1.5")

	if err := (&Tokens{Source: file}).Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	want := [][]string{
		{"1:1", "let", `"let"`},
		{"1:5", "identifier", `"x"`},
		{"1:7", "=", `"="`},
		{"1:9", "float", `"1.5"`},
		{"1:12", "EOF", "EOF"},
	}

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), stdout.String())
	}

	for i, line := range lines {
		if got := strings.Fields(line); strings.Join(got, " ") != strings.Join(want[i], " ") {
			t.Errorf("line %d = %q, want fields %q", i+1, line, want[i])
		}
	}
}

func TestTokens_ScanError(t *testing.T) {
	ctx, _, stderr := testContext(t)
	file := writeSource(t, t.TempDir(), "bad.scrip", "let s = \"open")

	err := (&Tokens{Source: file}).Run(ctx)
	if !errors.Is(err, lang.ErrScan) {
		t.Errorf("error = %v, want %v", err, lang.ErrScan)
	}

	if stderr.Len() == 0 {
		t.Error("no diagnostic written")
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := ErrOpenSource.Wrap(cause)

	if !errors.Is(err, ErrOpenSource) {
		t.Error("wrapped error does not match its sentinel")
	}

	if errors.Is(err, ErrRun) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("wrapped error does not match its cause")
	}

	if got, want := err.Error(), "open source file: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
