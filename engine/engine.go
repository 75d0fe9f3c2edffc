// Package engine builds destination records from source values according to a
// mapping specification.
//
// The Engine walks the declared destination fields in order and hands each rule to the
// dispatcher (Apply), which copies a referenced value, calls a function, or recurses into
// the engine for nested and array rules:
//
//	out, err := engine.MapWith(product, rule.Spec{
//		{Name: "productId", Rule: rule.Ref("id")},
//		{Name: "finalPrice", Rule: rule.Ref("priceInfo.finalPrice")},
//	})
//
// A field whose rule is nil (or an empty reference) is left out of the destination;
// a field whose rule resolves to nothing is still assigned, with a nil value.
//
// Errors only come from function rules, which are returned unchanged, and from the
// recursion limit (ErrDepthExceeded). Everything else degrades to nil values or empty
// sequences.
package engine

import (
	"log/slog"

	"object-mapper/record"
	"object-mapper/resolve"
	"object-mapper/rule"
)

// Engine applies mapping specifications. It is immutable after New and safe for
// concurrent use as long as the function rules it runs are.
type Engine struct {
	mode     resolve.Mode
	maxDepth int
	logger   *slog.Logger
}

// New creates an Engine using path traversal and DefaultMaxDepth unless configured
// otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		mode:     resolve.PathTraversal,
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// MapWith maps src through spec with a one-off Engine.
func MapWith(src any, spec rule.Spec, opts ...Option) (*record.Record, error) {
	return New(opts...).Map(src, spec)
}

// Mode returns the resolution mode of the engine.
func (e *Engine) Mode() resolve.Mode {
	return e.mode
}

// MaxDepth returns the recursion limit of the engine.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// Map builds a new destination record from src according to spec.
func (e *Engine) Map(src any, spec rule.Spec) (*record.Record, error) {
	return e.mapSpec(src, spec, &walk{})
}

// walk tracks the destination field path of the current recursion.
type walk struct {
	path []string
}

func (w *walk) push(name string) { w.path = append(w.path, name) }
func (w *walk) pop()             { w.path = w.path[:len(w.path)-1] }

func (e *Engine) mapSpec(src any, spec rule.Spec, w *walk) (*record.Record, error) {
	// The root spec sits at depth 1; every enclosing field adds one level.
	if len(w.path)+1 > e.maxDepth {
		return nil, &DepthError{Path: append([]string(nil), w.path...), Limit: e.maxDepth}
	}

	dest := record.New()

	for _, field := range spec {
		if rule.IsAbsent(field.Rule) {
			e.logger.Debug("skipping field without rule", "field", field.Name)
			continue
		}

		w.push(field.Name)
		value, err := e.apply(src, field.Rule, field.Name, w)
		w.pop()

		if err != nil {
			return nil, err
		}

		dest.Set(field.Name, value)
	}

	return dest, nil
}
