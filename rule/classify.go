package rule

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"object-mapper/internal/common"
	"object-mapper/record"
)

// Reserved keys that turn an object rule into a FromMapRule.
const (
	FromKey = "from"
	MapKey  = "map"
)

// ErrNotObject is returned when a value expected to be a mapping specification is not
// object-shaped.
var ErrNotObject = errors.New("mapping specification must be an object")

// Classify infers the rule variant of an untyped value, checking shapes in a fixed order:
//
//  1. a Rule, a Transform or a func(any) any: function (or the given rule)
//  2. a string: reference
//  3. a slice or array: ArrayRule over its first element
//  4. an object holding both "from" and "map": FromMapRule
//  5. any other object: NestedRule
//
// nil yields a nil rule. Other values (numbers, booleans) are not rules and also yield
// nil, so the field is skipped.
//
// A nested specification that declares destination fields named exactly "from" and
// "map" is classified as a FromMapRule. This is a known limitation of shape-based
// classification; build the Spec with the constructors to avoid it.
func Classify(v any) (Rule, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Rule:
		return Normalize(t), nil
	case Transform:
		return Func(t), nil
	case func(any) (any, error):
		return Func(t), nil
	case func(any) any:
		return FuncOf(t), nil
	case string:
		return Ref(t), nil
	case Spec:
		return Nested(t), nil
	}

	if isSequence(v) {
		rv := reflect.ValueOf(v)
		if rv.Len() == 0 {
			return Array(Spec{}), nil
		}

		spec, err := SpecFrom(rv.Index(0).Interface())
		if err != nil {
			return nil, fmt.Errorf("array rule: %w", err)
		}

		return Array(spec), nil
	}

	keys, get, ok := objectView(v)
	if !ok {
		return nil, nil
	}

	from, hasFrom := get(FromKey)
	mapping, hasMap := get(MapKey)

	if hasFrom && hasMap {
		path, isString := from.(string)
		if !isString {
			return nil, fmt.Errorf("from/map rule: %q must be a string, got %T", FromKey, from)
		}

		spec, err := SpecFrom(mapping)
		if err != nil {
			return nil, fmt.Errorf("from/map rule %q: %w", path, err)
		}

		return FromMap(path, spec), nil
	}

	spec, err := specFromView(keys, get)
	if err != nil {
		return nil, err
	}

	return Nested(spec), nil
}

// SpecFrom converts an object-shaped value into a Spec, classifying every field.
// Records keep their insertion order; Go maps are read in sorted key order.
func SpecFrom(v any) (Spec, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Spec:
		return t, nil
	}

	keys, get, ok := objectView(v)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrNotObject, v)
	}

	return specFromView(keys, get)
}

func specFromView(keys []string, get func(string) (any, bool)) (Spec, error) {
	spec := make(Spec, 0, len(keys))

	for _, k := range keys {
		raw, _ := get(k)

		r, err := Classify(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}

		spec = append(spec, Field{Name: k, Rule: r})
	}

	return spec, nil
}

// objectView exposes the keys (in iteration order) and a getter of an object-shaped value.
func objectView(v any) ([]string, func(string) (any, bool), bool) {
	switch t := v.(type) {
	case *record.Record:
		if t == nil {
			return nil, nil, false
		}

		return record.Keys(t), t.Get, true
	case map[string]any:
		return common.SortedKeys(t), func(k string) (any, bool) {
			val, ok := t[k]
			return val, ok
		}, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, nil, false
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}

	sort.Strings(keys)

	keyType := rv.Type().Key()

	return keys, func(k string) (any, bool) {
		val := rv.MapIndex(reflect.ValueOf(k).Convert(keyType))
		if !val.IsValid() {
			return nil, false
		}

		return val.Interface(), true
	}, true
}

func isSequence(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
