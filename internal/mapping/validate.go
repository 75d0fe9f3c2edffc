package mapping

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"object-mapper/internal/common"
	"object-mapper/internal/diagnostic"
	"object-mapper/internal/match"
)

// ErrReferenceCycle is reported when !spec references loop through nested rules only.
var ErrReferenceCycle = errors.New("reference cycle")

// maxSuggestions bounds the "did you mean" list of a diagnostic.
const maxSuggestions = 3

// Validate checks a mapping document against the transform registry.
// This is a structural validation step only; sources are not known until mapping time,
// so reference paths are checked for shape and never for existence.
func Validate(mf *MappingFile, registry *TransformRegistry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	v := &validator{res: res, mf: mf, registry: registry}

	v.validateTransforms()
	v.validateMappingNames()

	for i := range mf.Mappings {
		nm := &mf.Mappings[i]

		if nm.Body.IsRef() {
			v.checkRef(nm.Name, "", nm.Line, nm.Body.Ref)
			continue
		}

		v.validateFields(nm.Name, "", nm.Body.Fields)
	}

	for _, cycle := range nestedCycles(mf.Mappings) {
		res.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     "reference_cycle",
			Message:  fmt.Sprintf("%v: %s", ErrReferenceCycle, strings.Join(cycle, " -> ")),
			Mapping:  cycle[0],
		})
	}

	return res
}

type validator struct {
	res      *diagnostic.Diagnostics
	mf       *MappingFile
	registry *TransformRegistry
}

func (v *validator) validateTransforms() {
	names := make([]string, 0, len(v.mf.Transforms))

	for i := range v.mf.Transforms {
		name := v.mf.Transforms[i].Name
		if name == "" {
			v.res.AddError("empty_transform_name", "transform declaration without a name", "", "")
			continue
		}

		names = append(names, name)
	}

	for _, dup := range common.Duplicates(names) {
		v.res.AddError("duplicate_transform", fmt.Sprintf("duplicate transform %q", dup), "", dup)
	}

	for _, name := range names {
		if !v.registry.Has(name) {
			v.unknownTransform("", "", 0, name)
		}
	}
}

func (v *validator) validateMappingNames() {
	names := v.mf.Mappings.Names()

	for _, dup := range common.Duplicates(names) {
		v.res.AddError("duplicate_mapping", fmt.Sprintf("duplicate mapping %q", dup), dup, "")
	}

	if common.IsEmpty(names) {
		v.res.AddInfo("no_mappings", "document declares no mappings", "", "")
	}
}

func (v *validator) validateFields(mapping, prefix string, fields []FieldDef) {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	for _, dup := range common.Duplicates(names) {
		v.res.AddWarning("duplicate_field",
			fmt.Sprintf("field %q is declared more than once; the last rule wins", dup),
			mapping, joinField(prefix, dup))
	}

	for i := range fields {
		f := &fields[i]
		v.validateRule(mapping, joinField(prefix, f.Name), f.Line, &f.Rule)
	}
}

func (v *validator) validateRule(mapping, fieldPath string, line int, def *RuleDef) {
	switch def.Kind {
	case RuleNone:
		return

	case RuleRef:
		v.checkPath(mapping, fieldPath, line, def.Path)

	case RuleFunc:
		if !v.registry.Has(def.Transform) {
			v.unknownTransform(mapping, fieldPath, line, def.Transform)
		}

	case RuleTemplate:
		if _, err := template.New(fieldPath).Parse(def.Template); err != nil {
			v.add(diagnostic.SeverityError, "invalid_template", fmt.Sprintf("invalid template: %v", err), mapping, fieldPath, line)
		}

	case RuleArray:
		switch {
		case def.ElementCount == 0:
			v.add(diagnostic.SeverityWarning, "empty_array_rule",
				"array rule has no element mapping; every element maps to an empty object",
				mapping, fieldPath, line)
		case def.ElementCount > 1:
			v.add(diagnostic.SeverityWarning, "ignored_array_elements",
				fmt.Sprintf("only the first of %d element mappings is used", def.ElementCount),
				mapping, fieldPath, line)
		}

		v.validateBody(mapping, fieldPath, line, def.Body)

	case RuleFromMap:
		if def.From == "" {
			v.add(diagnostic.SeverityError, "empty_from", `"from" must name the source array`, mapping, fieldPath, line)
		} else {
			v.checkPath(mapping, fieldPath, line, def.From)
		}

		if len(def.ExtraKeys) > 0 {
			v.add(diagnostic.SeverityWarning, "ambiguous_from_map",
				fmt.Sprintf(`object with "from" and "map" is read as a from/map rule; keys %s are ignored`,
					strings.Join(def.ExtraKeys, ", ")),
				mapping, fieldPath, line)
		}

		v.validateBody(mapping, fieldPath, line, def.Body)

	case RuleNested:
		v.validateBody(mapping, fieldPath, line, def.Body)

	case RuleUnrecognized:
		v.add(diagnostic.SeverityWarning, "unrecognized_rule",
			fmt.Sprintf("value %q is not a rule and produces no field", def.Raw),
			mapping, fieldPath, line)
	}
}

func (v *validator) validateBody(mapping, fieldPath string, line int, body SpecBody) {
	if body.IsRef() {
		v.checkRef(mapping, fieldPath, line, body.Ref)
		return
	}

	v.validateFields(mapping, fieldPath, body.Fields)
}

func (v *validator) checkRef(mapping, fieldPath string, line int, ref string) {
	if _, ok := v.mf.Mappings.Get(ref); ok {
		return
	}

	v.res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        "unknown_mapping",
		Message:     fmt.Sprintf("%v %q", ErrUnknownMapping, ref),
		Mapping:     mapping,
		FieldPath:   fieldPath,
		Line:        line,
		Suggestions: match.Suggest(ref, v.mf.Mappings.Names(), maxSuggestions),
	})
}

func (v *validator) checkPath(mapping, fieldPath string, line int, path string) {
	if _, err := ParsePath(path); err != nil {
		v.add(diagnostic.SeverityWarning, "invalid_path", err.Error(), mapping, fieldPath, line)
	}
}

func (v *validator) unknownTransform(mapping, fieldPath string, line int, name string) {
	v.res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        "unknown_transform",
		Message:     fmt.Sprintf("%v %q", ErrUnknownTransform, name),
		Mapping:     mapping,
		FieldPath:   fieldPath,
		Line:        line,
		Suggestions: match.Suggest(name, v.registry.Names(), maxSuggestions),
	})
}

func (v *validator) add(sev diagnostic.Severity, code, msg, mapping, fieldPath string, line int) {
	v.res.Add(diagnostic.Diagnostic{
		Severity:  sev,
		Code:      code,
		Message:   msg,
		Mapping:   mapping,
		FieldPath: fieldPath,
		Line:      line,
	})
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}

// nestedCycles finds !spec reference loops that only pass through nested rules.
// Array and from/map rules descend into the source, so loops through them end with the data.
func nestedCycles(mappings Mappings) [][]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(mappings))

	var (
		stack  []string
		cycles [][]string
		visit  func(name string)
	)

	visit = func(name string) {
		color[name] = gray
		stack = append(stack, name)

		nm, _ := mappings.Get(name)
		for _, next := range nestedRefs(nm.Body) {
			if _, ok := mappings.Get(next); !ok {
				continue
			}

			switch color[next] {
			case white:
				visit(next)
			case gray:
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}

				cycle := append([]string{}, stack[start:]...)
				cycles = append(cycles, append(cycle, next))
			}
		}

		stack = stack[:len(stack)-1]
		color[name] = black
	}

	for _, name := range mappings.Names() {
		if color[name] == white {
			visit(name)
		}
	}

	return cycles
}

// nestedRefs lists the mappings a body applies to its own source.
func nestedRefs(body SpecBody) []string {
	if body.IsRef() {
		return []string{body.Ref}
	}

	var refs []string

	for _, f := range body.Fields {
		if f.Rule.Kind == RuleNested {
			refs = append(refs, nestedRefs(f.Rule.Body)...)
		}
	}

	return refs
}
