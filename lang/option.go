package lang

import "github.com/ardnew/scrip/log"

// DefaultMaxDepth is the default limit on syntactic nesting accepted by the
// parser: the height of the tree of expressions and blocks, counting each
// operator, call, if, and block as one level.
const DefaultMaxDepth = 256

type options struct {
	logger   log.Logger
	maxDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger. The zero [log.Logger] discards
// everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	if o.maxDepth < 1 {
		o.maxDepth = DefaultMaxDepth
	}

	return o
}
