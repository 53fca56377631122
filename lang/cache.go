package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// parseCache maps a cacheKey to the *cacheEntry holding its parse result.
// A parsed Program is never modified, so one Program is shared by every
// caller presenting the same source and options.
var parseCache sync.Map

type cacheKey struct {
	sum      uint64
	size     int
	maxDepth int
}

type cacheEntry struct {
	once sync.Once
	prog *Program
	err  error
}

// ParseReader reads all of r and parses it with [ParseCached].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Read-ahead prefetches the next chunk while the current one is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return ParseCached(ctx, string(data), opts...)
}

// ParseCached is like [Parse] but memoizes the result by a hash of source
// and the parse options. Failed parses are memoized too.
func ParseCached(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	key := cacheKey{
		sum:      xxh3.HashString(source),
		size:     len(source),
		maxDepth: o.maxDepth,
	}

	value, hit := parseCache.LoadOrStore(key, new(cacheEntry))
	entry := value.(*cacheEntry) //nolint:forcetypeassert

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.sum, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.prog, entry.err = Parse(ctx, source, opts...)
	})

	return entry.prog, entry.err
}

// ClearCache discards every memoized parse result.
func ClearCache() {
	parseCache.Clear()
}
