// Package cli contains the command line interface for scrip.
//
// # Usage
//
//	scrip [flags] [run] [FILE]           run FILE, or start the REPL
//	scrip [flags] fmt [native|json|yaml|ast] [FILE]
//	scrip [flags] tokens [FILE]
//
// A FILE of "-" reads standard input. Relative file names that do not exist
// are looked up in each --path directory and then in $SCRIP_PATH, with and
// without the ".scrip" extension.
//
// # Globals
//
// Each --define NAME=EXPR binds NAME in the root scope before the program or
// REPL starts. EXPR is an expr-lang expression, and env(NAME) returns an
// environment variable:
//
//	scrip -D limit=10*3 -D home='env("HOME")' run main.scrip
//
// # Configuration
//
// Flag defaults are read from config.json and config.scrip in the user
// configuration directory. config.scrip is itself a program; the root-scope
// bindings it leaves behind set the flags of the same name:
//
//	let log_level = "debug"
//	let max_depth = 64
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorized output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o scrip .
//
//   - --pprof-mode: profile kind (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory
package cli
