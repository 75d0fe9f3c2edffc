package engine

import (
	"log/slog"

	"object-mapper/resolve"
)

// DefaultMaxDepth bounds how deeply nested and array rules may recurse.
const DefaultMaxDepth = 256

// Option configures an Engine.
type Option func(*Engine)

// WithMode sets the resolution mode used for string rules and array lookups.
func WithMode(mode resolve.Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithDeepKeySearch resolves string rules by searching the whole source graph for a
// property with the given name instead of following a dotted path.
func WithDeepKeySearch() Option {
	return WithMode(resolve.DeepKeySearch)
}

// WithMaxDepth sets the recursion limit for nested and array rules.
// Values below 1 restore DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		e.maxDepth = depth
	}
}

// WithLogger sets the logger used for debug tracing. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}

		e.logger = logger
	}
}
