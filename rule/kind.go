package rule

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind discriminates the variants of Rule.
type Kind int

const (
	_ Kind = iota // skip zero value, use it as a default (invalid) value for Kind

	KindFunc    // computed from the whole source
	KindRef     // field name or dotted path
	KindArray   // array at the destination field name, elements mapped by a nested spec
	KindFromMap // array at an explicit source key, elements mapped by a nested spec
	KindNested  // nested spec applied to the same source

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// HasSpec reports whether rules of this kind carry a nested Spec.
func (k Kind) HasSpec() bool {
	switch k {
	default:
		return false
	case KindArray, KindFromMap, KindNested:
		return true
	}
}

// IsCollection reports whether rules of this kind produce a sequence.
func (k Kind) IsCollection() bool {
	switch k {
	default:
		return false
	case KindArray, KindFromMap:
		return true
	}
}
