// Package rule defines mapping specifications: an ordered list of destination fields,
// each paired with the Rule that produces its value.
//
// Rules are a closed sum type. Build them with the constructors:
//
//	spec := rule.Spec{
//		{Name: "productId", Rule: rule.Ref("id")},
//		{Name: "finalPrice", Rule: rule.Ref("priceInfo.finalPrice")},
//		{Name: "summary", Rule: rule.FuncOf(summarize)},
//		{Name: "items", Rule: rule.Array(itemSpec)},
//		{Name: "related", Rule: rule.FromMap("links", linkSpec)},
//		{Name: "pricing", Rule: rule.Nested(pricingSpec)},
//	}
//
// Specs coming from untyped data (decoded JSON, plain maps) can be converted with
// Classify and SpecFrom, which infer the rule variant from the value's shape.
package rule

// Rule describes how one destination field is produced.
// The concrete types are RefRule, FuncRule, ArrayRule, FromMapRule and NestedRule.
type Rule interface {
	Kind() Kind

	sealed()
}

// Transform computes a destination value from the whole source value.
type Transform func(src any) (any, error)

// RefRule copies the value found at a field name or dotted path.
type RefRule struct {
	Path string
}

// FuncRule computes the value with a function of the whole source.
type FuncRule struct {
	Fn Transform
}

// ArrayRule maps every element of the array stored under the destination field name.
type ArrayRule struct {
	Spec Spec
}

// FromMapRule maps every element of the array stored under From.
type FromMapRule struct {
	From string
	Spec Spec
}

// NestedRule builds a sub-object by applying Spec to the same source value.
type NestedRule struct {
	Spec Spec
}

func (RefRule) Kind() Kind     { return KindRef }
func (FuncRule) Kind() Kind    { return KindFunc }
func (ArrayRule) Kind() Kind   { return KindArray }
func (FromMapRule) Kind() Kind { return KindFromMap }
func (NestedRule) Kind() Kind  { return KindNested }

func (RefRule) sealed()     {}
func (FuncRule) sealed()    {}
func (ArrayRule) sealed()   {}
func (FromMapRule) sealed() {}
func (NestedRule) sealed()  {}

// Ref returns a rule copying the value at path.
func Ref(path string) RefRule {
	return RefRule{Path: path}
}

// Func returns a rule computing the value with fn.
func Func(fn Transform) FuncRule {
	return FuncRule{Fn: fn}
}

// FuncOf wraps an infallible function as a rule.
func FuncOf(fn func(src any) any) FuncRule {
	return FuncRule{Fn: func(src any) (any, error) { return fn(src), nil }}
}

// Array returns a rule mapping each element of the array found under the destination
// field name through spec.
func Array(spec Spec) ArrayRule {
	return ArrayRule{Spec: spec}
}

// FromMap returns a rule mapping each element of the array found at from through spec.
func FromMap(from string, spec Spec) FromMapRule {
	return FromMapRule{From: from, Spec: spec}
}

// Nested returns a rule building a sub-object from the same source through spec.
func Nested(spec Spec) NestedRule {
	return NestedRule{Spec: spec}
}

// Normalize converts pointer variants to their value form.
// Nil pointers normalize to a nil Rule.
func Normalize(r Rule) Rule {
	switch t := r.(type) {
	case *RefRule:
		if t == nil {
			return nil
		}

		return *t
	case *FuncRule:
		if t == nil {
			return nil
		}

		return *t
	case *ArrayRule:
		if t == nil {
			return nil
		}

		return *t
	case *FromMapRule:
		if t == nil {
			return nil
		}

		return *t
	case *NestedRule:
		if t == nil {
			return nil
		}

		return *t
	default:
		return r
	}
}

// IsAbsent reports whether r contributes no destination field:
// a nil rule, an empty reference or a function rule without a function.
func IsAbsent(r Rule) bool {
	switch t := Normalize(r).(type) {
	case nil:
		return true
	case RefRule:
		return t.Path == ""
	case FuncRule:
		return t.Fn == nil
	default:
		return false
	}
}
