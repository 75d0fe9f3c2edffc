package rule

import (
	"fmt"
	"strings"
)

// Field pairs a destination field name with the rule producing its value.
type Field struct {
	Name string
	Rule Rule
}

// Spec is a mapping specification: destination fields in declaration order.
// A Spec is treated as immutable once handed to the engine.
type Spec []Field

// With returns a copy of s with one more field appended.
func (s Spec) With(name string, r Rule) Spec {
	out := make(Spec, len(s), len(s)+1)
	copy(out, s)

	return append(out, Field{Name: name, Rule: r})
}

// Names returns the declared destination field names in order.
func (s Spec) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}

	return names
}

// Lookup returns the rule declared for name. When a name is declared more than once,
// the last declaration wins, matching how the engine assigns it.
func (s Spec) Lookup(name string) (Rule, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Name == name {
			return s[i].Rule, true
		}
	}

	return nil, false
}

// SubSpec returns the nested spec carried by r, if any.
func SubSpec(r Rule) (Spec, bool) {
	switch t := Normalize(r).(type) {
	case ArrayRule:
		return t.Spec, true
	case FromMapRule:
		return t.Spec, true
	case NestedRule:
		return t.Spec, true
	default:
		return nil, false
	}
}

// Describe renders s as an indented outline, one field per line.
// Nested specs are expanded up to maxDepth levels.
func Describe(s Spec, maxDepth int) string {
	var sb strings.Builder
	describe(&sb, s, 0, maxDepth)

	return sb.String()
}

func describe(sb *strings.Builder, s Spec, depth, maxDepth int) {
	indent := strings.Repeat("  ", depth)

	for _, f := range s {
		r := Normalize(f.Rule)

		switch t := r.(type) {
		case nil:
			fmt.Fprintf(sb, "%s%s: <none>\n", indent, f.Name)
		case RefRule:
			fmt.Fprintf(sb, "%s%s: ref %q\n", indent, f.Name, t.Path)
		case FuncRule:
			fmt.Fprintf(sb, "%s%s: func\n", indent, f.Name)
		case ArrayRule:
			fmt.Fprintf(sb, "%s%s: array\n", indent, f.Name)
		case FromMapRule:
			fmt.Fprintf(sb, "%s%s: from %q\n", indent, f.Name, t.From)
		case NestedRule:
			fmt.Fprintf(sb, "%s%s: nested\n", indent, f.Name)
		}

		if sub, ok := SubSpec(r); ok {
			if depth+1 >= maxDepth {
				fmt.Fprintf(sb, "%s  ...\n", indent)
				continue
			}

			describe(sb, sub, depth+1, maxDepth)
		}
	}
}
