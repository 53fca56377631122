// Package profile provides optional runtime profiling for scrip.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof .
//	scrip --pprof-mode cpu run fib.scrip
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// controller, so callers never need to check how the binary was built.
//
// Profile files are written to the configured directory with names matching
// the mode (cpu.pprof, mem.pprof, ...) and are analyzed with go tool pprof:
//
//	go tool pprof -http=: $XDG_CACHE_HOME/scrip/pprof/cpu.pprof
//
// The tagged build also imports [net/http/pprof], which registers handlers
// under /debug/pprof/ on the default HTTP mux for hosts that serve it.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
