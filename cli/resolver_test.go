package cli

import (
	"io"
	"maps"
	"os"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scrip/log"
)

func loadConfig(t *testing.T, src string) config {
	t.Helper()

	r, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	cfg, ok := r.(config)
	if !ok {
		t.Fatalf("resolver is %T, want config", r)
	}

	return cfg
}

func TestResolve(t *testing.T) {
	log.Config(log.WithOutput(io.Discard))
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stdout)) })

	tests := []struct {
		name string
		src  string
		want config
	}{
		{
			name: "bindings",
			src:  "let log_level = \"debug\"\nlet log_pretty = true\nlet max_depth = 8 * 8\nlet ratio = 0.5",
			want: config{
				"log_level":  "debug",
				"log_pretty": true,
				"max_depth":  "64",
				"ratio":      "0.5",
			},
		},
		{
			name: "computed",
			src:  "let level = \"warn\"\nif 1 < 2 { level = \"error\" }\nlet log_level = level",
			want: config{"level": "error", "log_level": "error"},
		},
		{
			name: "null bindings ignored",
			src:  "let unset\nlet log_caller = false",
			want: config{"log_caller": false},
		},
		{
			name: "block bindings are not root bindings",
			src:  "{ let inner = 1 }",
			want: config{},
		},
		{name: "empty", src: "", want: config{}},
		{name: "parse error", src: "let = 1", want: config{}},
		{name: "runtime error", src: "let a = 1\nlet b = a + missing", want: config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loadConfig(t, tt.src); !maps.Equal(got, tt.want) {
				t.Errorf("config = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	var flags struct {
		LogLevel string `default:"info"`
		Pretty   bool
		MaxDepth int `default:"256"`
		Name     string
	}

	cfg := loadConfig(t, "let log_level = \"trace\"\nlet pretty = true\nlet max_depth = 32")

	parser, err := kong.New(&flags, kong.Resolvers(cfg), kong.Exit(func(int) {
		t.Fatal("unexpected exit")
	}))
	if err != nil {
		t.Fatalf("kong.New error: %v", err)
	}

	if _, err := parser.Parse([]string{"--name", "cli"}); err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if flags.LogLevel != "trace" || !flags.Pretty || flags.MaxDepth != 32 || flags.Name != "cli" {
		t.Errorf("flags = %+v", flags)
	}
}

func TestConfig_CommandLineOverrides(t *testing.T) {
	var flags struct {
		LogLevel string `default:"info"`
	}

	cfg := loadConfig(t, `let log_level = "trace"`)

	parser, err := kong.New(&flags, kong.Resolvers(cfg))
	if err != nil {
		t.Fatalf("kong.New error: %v", err)
	}

	if _, err := parser.Parse([]string{"--log-level=error"}); err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if flags.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q", flags.LogLevel, "error")
	}
}
