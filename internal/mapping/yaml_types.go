package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- Mappings YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Mappings.
// Accepts a mapping of name to specification body and keeps document order.
func (m *Mappings) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*m = Mappings{}
			return nil
		}

		return fmt.Errorf("line %d: mappings must be a mapping of name to specification", node.Line)

	case yaml.MappingNode:
		result := make(Mappings, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]

			body, err := decodeBody(value)
			if err != nil {
				return fmt.Errorf("mapping %q: %w", key.Value, err)
			}

			result = append(result, NamedMapping{Name: key.Value, Body: body, Line: key.Line})
		}

		*m = result

		return nil

	default:
		return fmt.Errorf("line %d: mappings must be a mapping of name to specification", node.Line)
	}
}

// MarshalYAML implements custom YAML marshaling for Mappings.
func (m Mappings) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, nm := range m {
		body, err := encodeBody(nm.Body)
		if err != nil {
			return nil, fmt.Errorf("mapping %q: %w", nm.Name, err)
		}

		out.Content = append(out.Content, strNode(nm.Name), body)
	}

	return out, nil
}

// --- SpecBody YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for SpecBody.
// Accepts an inline mapping of fields, null (empty body) or !spec NAME.
func (b *SpecBody) UnmarshalYAML(node *yaml.Node) error {
	body, err := decodeBody(node)
	if err != nil {
		return err
	}

	*b = body

	return nil
}

// MarshalYAML implements custom YAML marshaling for SpecBody.
func (b SpecBody) MarshalYAML() (any, error) {
	return encodeBody(b)
}

// --- RuleDef YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for RuleDef.
// See the package documentation for the accepted shapes.
func (r *RuleDef) UnmarshalYAML(node *yaml.Node) error {
	def, err := decodeRule(node)
	if err != nil {
		return err
	}

	*r = def

	return nil
}

// MarshalYAML implements custom YAML marshaling for RuleDef.
func (r RuleDef) MarshalYAML() (any, error) {
	return encodeRule(r)
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	return node
}

func decodeBody(node *yaml.Node) (SpecBody, error) {
	node = resolveAlias(node)

	if node.Tag == TagSpec {
		name, err := taggedScalar(node)
		if err != nil {
			return SpecBody{}, err
		}

		return SpecBody{Ref: name}, nil
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return SpecBody{}, nil
		}

		return SpecBody{}, fmt.Errorf("line %d: expected a mapping or %s reference, got %q", node.Line, TagSpec, node.Value)

	case yaml.MappingNode:
		fields := make([]FieldDef, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]

			r, err := decodeRule(value)
			if err != nil {
				return SpecBody{}, fmt.Errorf("field %q: %w", key.Value, err)
			}

			fields = append(fields, FieldDef{Name: key.Value, Rule: r, Line: key.Line})
		}

		return SpecBody{Fields: fields}, nil

	default:
		return SpecBody{}, fmt.Errorf("line %d: expected a mapping or %s reference", node.Line, TagSpec)
	}
}

func decodeRule(node *yaml.Node) (RuleDef, error) {
	node = resolveAlias(node)
	def := RuleDef{Line: node.Line}

	// Function rules come first, then strings, arrays, from/map and nested objects.
	switch node.Tag {
	case TagFunc:
		name, err := taggedScalar(node)
		if err != nil {
			return def, err
		}

		def.Kind = RuleFunc
		def.Transform = name

		return def, nil

	case TagTemplate:
		if node.Kind != yaml.ScalarNode {
			return def, fmt.Errorf("line %d: %s expects template text", node.Line, TagTemplate)
		}

		def.Kind = RuleTemplate
		def.Template = node.Value

		return def, nil

	case TagSpec:
		body, err := decodeBody(node)
		if err != nil {
			return def, err
		}

		def.Kind = RuleNested
		def.Body = body

		return def, nil
	}

	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!str":
			def.Kind = RuleRef
			def.Path = node.Value

			if node.Value == "" {
				def.Kind = RuleNone
			}
		case "!!null":
			def.Kind = RuleNone
		case "!!int", "!!float", "!!bool", "!!timestamp", "!!binary":
			def.Kind = RuleUnrecognized
			def.Raw = node.Value
		default:
			return def, fmt.Errorf("line %d: unknown tag %q", node.Line, node.Tag)
		}

		return def, nil

	case yaml.SequenceNode:
		def.Kind = RuleArray
		def.ElementCount = len(node.Content)

		if len(node.Content) > 0 {
			body, err := decodeBody(node.Content[0])
			if err != nil {
				return def, fmt.Errorf("array element: %w", err)
			}

			def.Body = body
		}

		return def, nil

	case yaml.MappingNode:
		fromNode, mapNode, extra := splitFromMap(node)
		if fromNode != nil && mapNode != nil {
			fromNode = resolveAlias(fromNode)
			if fromNode.Kind != yaml.ScalarNode || fromNode.ShortTag() != "!!str" {
				return def, fmt.Errorf("line %d: %q must be a string", fromNode.Line, "from")
			}

			body, err := decodeBody(mapNode)
			if err != nil {
				return def, fmt.Errorf("from/map rule %q: %w", fromNode.Value, err)
			}

			def.Kind = RuleFromMap
			def.From = fromNode.Value
			def.Body = body
			def.ExtraKeys = extra

			return def, nil
		}

		body, err := decodeBody(node)
		if err != nil {
			return def, err
		}

		def.Kind = RuleNested
		def.Body = body

		return def, nil

	default:
		return def, fmt.Errorf("line %d: unsupported rule node", node.Line)
	}
}

// splitFromMap finds the "from" and "map" values of a mapping node and the other keys.
func splitFromMap(node *yaml.Node) (*yaml.Node, *yaml.Node, []string) {
	var (
		from, mapping *yaml.Node
		extra         []string
	)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		switch key.Value {
		case "from":
			from = value
		case "map":
			mapping = value
		default:
			extra = append(extra, key.Value)
		}
	}

	return from, mapping, extra
}

func taggedScalar(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode || node.Value == "" {
		return "", fmt.Errorf("line %d: %s expects a name", node.Line, node.Tag)
	}

	return node.Value, nil
}

func encodeBody(b SpecBody) (*yaml.Node, error) {
	if b.IsRef() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagSpec, Value: b.Ref}, nil
	}

	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, f := range b.Fields {
		value, err := encodeRule(f.Rule)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}

		out.Content = append(out.Content, strNode(f.Name), value)
	}

	return out, nil
}

func encodeRule(r RuleDef) (*yaml.Node, error) {
	switch r.Kind {
	case RuleNone:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case RuleRef:
		return strNode(r.Path), nil
	case RuleFunc:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagFunc, Value: r.Transform}, nil
	case RuleTemplate:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagTemplate, Value: r.Template, Style: yaml.DoubleQuotedStyle}, nil
	case RuleArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if r.ElementCount > 0 || r.Body.IsRef() || len(r.Body.Fields) > 0 {
			body, err := encodeBody(r.Body)
			if err != nil {
				return nil, err
			}

			seq.Content = append(seq.Content, body)
		}

		return seq, nil
	case RuleFromMap:
		body, err := encodeBody(r.Body)
		if err != nil {
			return nil, err
		}

		return &yaml.Node{
			Kind:    yaml.MappingNode,
			Tag:     "!!map",
			Content: []*yaml.Node{strNode("from"), strNode(r.From), strNode("map"), body},
		}, nil
	case RuleNested:
		return encodeBody(r.Body)
	case RuleUnrecognized:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: r.Raw}, nil
	default:
		return nil, errors.New("unknown rule kind")
	}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
