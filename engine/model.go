package engine

import (
	"object-mapper/record"
	"object-mapper/rule"
)

// Model binds a specification to an engine so it can be reused as a plain mapping
// function.
type Model struct {
	engine *Engine
	spec   rule.Spec
}

// Bind creates a Model for spec with a dedicated engine.
func Bind(spec rule.Spec, opts ...Option) *Model {
	return &Model{engine: New(opts...), spec: spec}
}

// Spec returns the bound specification.
func (m *Model) Spec() rule.Spec {
	return m.spec
}

// Map maps src through the bound specification.
func (m *Model) Map(src any) (*record.Record, error) {
	return m.engine.Map(src, m.spec)
}
