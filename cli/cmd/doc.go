// Package cmd implements the scrip subcommands: run, fmt, and tokens.
//
// Commands receive their shared state (the kong context, the source search
// path, global bindings, and interpreter options) through the
// [context.Context] passed to their Run methods.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration directory.
	ConfigIdentifier = "config"
)
