package mapping

import (
	"object-mapper/internal/common"
)

// YAML tags recognized on rule values.
const (
	TagFunc     = "!func"
	TagTemplate = "!tmpl"
	TagSpec     = "!spec"
)

// MappingFile represents the root of a YAML mapping document.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Transforms declares the function rules the document expects to be registered.
	Transforms []TransformDef `yaml:"transforms,omitempty"`

	// Mappings holds the named specifications in document order.
	Mappings Mappings `yaml:"mappings"`
}

// TransformDef documents a named transform referenced with !func.
type TransformDef struct {
	// Name is the registry key.
	Name string `yaml:"name"`

	// Description is free-form documentation.
	Description string `yaml:"description,omitempty"`
}

// Mappings is the ordered list of named specifications.
type Mappings []NamedMapping

// NamedMapping is one top-level specification.
type NamedMapping struct {
	Name string
	Body SpecBody
	Line int
}

// Get returns the mapping with the given name.
func (m Mappings) Get(name string) (*NamedMapping, bool) {
	for i := range m {
		if m[i].Name == name {
			return &m[i], true
		}
	}

	return nil, false
}

// Names returns the mapping names in document order.
func (m Mappings) Names() []string {
	names := make([]string, len(m))
	for i := range m {
		names[i] = m[i].Name
	}

	return names
}

// SpecBody is either an inline list of fields or a reference to a named mapping.
type SpecBody struct {
	// Ref names another mapping (!spec NAME). Empty for inline bodies.
	Ref string

	// Fields are the inline destination fields in document order.
	Fields []FieldDef
}

// IsRef reports whether the body refers to a named mapping.
func (b SpecBody) IsRef() bool {
	return b.Ref != ""
}

// FieldDef is one destination field of an inline specification.
type FieldDef struct {
	Name string
	Rule RuleDef
	Line int
}

// RuleKind classifies a RuleDef.
type RuleKind int

const (
	RuleNone         RuleKind = iota // null or empty string: no field
	RuleRef                          // plain string
	RuleFunc                         // !func NAME
	RuleTemplate                     // !tmpl TEXT
	RuleArray                        // sequence
	RuleFromMap                      // mapping with from and map
	RuleNested                       // other mapping or !spec NAME
	RuleUnrecognized                 // number, boolean or other scalar
)

// String returns the lower-case kind name used in diagnostics.
func (k RuleKind) String() string {
	switch k {
	case RuleNone:
		return "none"
	case RuleRef:
		return "ref"
	case RuleFunc:
		return "func"
	case RuleTemplate:
		return "template"
	case RuleArray:
		return "array"
	case RuleFromMap:
		return "from/map"
	case RuleNested:
		return "nested"
	case RuleUnrecognized:
		return "unrecognized"
	default:
		return common.UnknownStr
	}
}

// RuleDef is the document form of a rule.
type RuleDef struct {
	Kind RuleKind

	// Path is the reference for RuleRef.
	Path string
	// Transform is the registry name for RuleFunc.
	Transform string
	// Template is the template text for RuleTemplate.
	Template string
	// From is the source array path for RuleFromMap.
	From string
	// Body is the element or nested spec for RuleArray, RuleFromMap and RuleNested.
	Body SpecBody

	// ExtraKeys lists keys of a from/map object other than "from" and "map".
	ExtraKeys []string
	// ElementCount is the number of sequence items of a RuleArray.
	ElementCount int
	// Raw is the literal text of a RuleUnrecognized scalar.
	Raw string

	Line int
}
