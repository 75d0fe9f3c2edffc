package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/Jeffail/gabs/v2"

	"object-mapper/record"
	"object-mapper/rule"
)

// Builtin transform names.
const (
	TransformIdentity = "identity"
	TransformJSON     = "json"
)

// ErrInvalidTransform is returned when registering a transform without a name or function.
var ErrInvalidTransform = errors.New("invalid transform")

// TransformRegistry holds the functions that back !func rules.
// Registration is not synchronized; build the registry before compiling documents.
type TransformRegistry struct {
	transforms map[string]rule.Transform
}

// NewTransformRegistry creates a new empty transform registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{
		transforms: make(map[string]rule.Transform),
	}
}

// Builtins creates a registry holding the identity and json transforms.
func Builtins() *TransformRegistry {
	r := NewTransformRegistry()
	r.transforms[TransformIdentity] = identity
	r.transforms[TransformJSON] = toJSON

	return r
}

// Register adds or replaces a transform.
func (r *TransformRegistry) Register(name string, fn rule.Transform) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTransform)
	}

	if fn == nil {
		return fmt.Errorf("%w: %q has no function", ErrInvalidTransform, name)
	}

	r.transforms[name] = fn

	return nil
}

// Get returns a transform by name.
func (r *TransformRegistry) Get(name string) (rule.Transform, bool) {
	if r == nil {
		return nil, false
	}

	fn, ok := r.transforms[name]

	return fn, ok
}

// Has returns true if a transform with the given name exists.
func (r *TransformRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all transform names, sorted.
func (r *TransformRegistry) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// NewTemplate compiles text/template text into a transform that renders it against the source.
// Records are exposed to the template as plain maps.
func NewTemplate(text string) (rule.Transform, error) {
	tmpl, err := template.New("rule").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return func(src any) (any, error) {
		var sb strings.Builder
		if err := tmpl.Execute(&sb, templateData(src)); err != nil {
			return nil, fmt.Errorf("failed to render template: %w", err)
		}

		return sb.String(), nil
	}, nil
}

func templateData(src any) any {
	switch v := src.(type) {
	case *record.Record:
		return record.ToMap(v)
	case *gabs.Container:
		return v.Data()
	default:
		return src
	}
}

func identity(src any) (any, error) {
	return src, nil
}

func toJSON(src any) (any, error) {
	if c, ok := src.(*gabs.Container); ok {
		return c.String(), nil
	}

	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to encode source: %w", err)
	}

	return string(data), nil
}
