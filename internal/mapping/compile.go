package mapping

import (
	"errors"
	"fmt"
	"slices"

	"object-mapper/rule"
)

var (
	// ErrInvalidDocument is returned by Compile when validation reports errors.
	ErrInvalidDocument = errors.New("invalid mapping document")

	// ErrUnknownMapping is returned when a !spec reference names no mapping.
	ErrUnknownMapping = errors.New("unknown mapping")

	// ErrUnknownTransform is returned when a !func rule names no registered transform.
	ErrUnknownTransform = errors.New("unknown transform")
)

// Catalog holds the compiled specifications of a mapping document.
type Catalog struct {
	names []string
	specs map[string]rule.Spec
}

// Get returns the specification compiled for name.
func (c *Catalog) Get(name string) (rule.Spec, bool) {
	spec, ok := c.specs[name]
	return spec, ok
}

// Names returns the mapping names in document order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Compile validates mf and turns every mapping into a rule.Spec.
//
// !spec references share the referenced specification, so a mapping may refer to
// itself through array or from/map rules to describe recursive data. Cycles made of
// nested rules only are rejected by validation since they never terminate.
func Compile(mf *MappingFile, registry *TransformRegistry) (*Catalog, error) {
	if mf == nil {
		return nil, fmt.Errorf("%w: mapping file is nil", ErrInvalidDocument)
	}

	diags := Validate(mf, registry)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, diags.Error())
	}

	c := &compiler{
		mappings: mf.Mappings,
		registry: registry,
		specs:    make(map[string]rule.Spec, len(mf.Mappings)),
	}

	// Allocate first so references can point at specs that are filled later.
	for _, nm := range mf.Mappings {
		if !nm.Body.IsRef() {
			c.specs[nm.Name] = make(rule.Spec, len(nm.Body.Fields))
		}
	}

	for _, nm := range mf.Mappings {
		if nm.Body.IsRef() {
			continue
		}

		if err := c.fill(c.specs[nm.Name], nm.Body.Fields); err != nil {
			return nil, fmt.Errorf("mapping %q: %w", nm.Name, err)
		}
	}

	cat := &Catalog{
		names: mf.Mappings.Names(),
		specs: make(map[string]rule.Spec, len(mf.Mappings)),
	}

	for _, name := range cat.names {
		spec, err := c.named(name)
		if err != nil {
			return nil, fmt.Errorf("mapping %q: %w", name, err)
		}

		cat.specs[name] = spec
	}

	return cat, nil
}

type compiler struct {
	mappings Mappings
	registry *TransformRegistry
	specs    map[string]rule.Spec
}

// named follows top-level !spec aliases to an allocated specification.
func (c *compiler) named(name string) (rule.Spec, error) {
	seen := map[string]bool{}

	for {
		if seen[name] {
			return nil, fmt.Errorf("%w: alias chain through %q", ErrReferenceCycle, name)
		}

		seen[name] = true

		nm, ok := c.mappings.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownMapping, name)
		}

		if !nm.Body.IsRef() {
			return c.specs[name], nil
		}

		name = nm.Body.Ref
	}
}

func (c *compiler) fill(dst rule.Spec, fields []FieldDef) error {
	for i, f := range fields {
		r, err := c.rule(f.Rule)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}

		dst[i] = rule.Field{Name: f.Name, Rule: r}
	}

	return nil
}

func (c *compiler) body(b SpecBody) (rule.Spec, error) {
	if b.IsRef() {
		return c.named(b.Ref)
	}

	spec := make(rule.Spec, len(b.Fields))
	if err := c.fill(spec, b.Fields); err != nil {
		return nil, err
	}

	return spec, nil
}

func (c *compiler) rule(def RuleDef) (rule.Rule, error) {
	switch def.Kind {
	case RuleRef:
		return rule.Ref(def.Path), nil

	case RuleFunc:
		fn, ok := c.registry.Get(def.Transform)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownTransform, def.Transform)
		}

		return rule.Func(fn), nil

	case RuleTemplate:
		fn, err := NewTemplate(def.Template)
		if err != nil {
			return nil, err
		}

		return rule.Func(fn), nil

	case RuleArray:
		spec, err := c.body(def.Body)
		if err != nil {
			return nil, err
		}

		return rule.Array(spec), nil

	case RuleFromMap:
		spec, err := c.body(def.Body)
		if err != nil {
			return nil, err
		}

		return rule.FromMap(def.From, spec), nil

	case RuleNested:
		spec, err := c.body(def.Body)
		if err != nil {
			return nil, err
		}

		return rule.Nested(spec), nil

	default:
		// RuleNone and RuleUnrecognized produce no field.
		return nil, nil
	}
}
