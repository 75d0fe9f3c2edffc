package engine

import (
	"reflect"

	"object-mapper/resolve"
	"object-mapper/rule"
)

// Apply produces the value of one destination field named field from src according to r.
//
// Rules are handled by kind:
//   - function: called with src, its result and error returned as is
//   - reference: resolved against src with the engine's mode
//   - array: the array under field is mapped element by element
//   - from/map: the array under the rule's From key is mapped element by element
//   - nested: the nested spec is applied to src itself
//
// A missing, falsy or non-array value under an array rule yields an empty sequence.
// An absent rule yields nil.
func (e *Engine) Apply(src any, r rule.Rule, field string) (any, error) {
	return e.apply(src, r, field, &walk{path: []string{field}})
}

func (e *Engine) apply(src any, r rule.Rule, field string, w *walk) (any, error) {
	switch t := rule.Normalize(r).(type) {
	case rule.FuncRule:
		if t.Fn == nil {
			return nil, nil
		}

		return t.Fn(src)
	case rule.RefRule:
		return resolve.Resolve(src, t.Path, e.mode), nil
	case rule.ArrayRule:
		return e.mapEach(src, field, t.Spec, w)
	case rule.FromMapRule:
		return e.mapEach(src, t.From, t.Spec, w)
	case rule.NestedRule:
		return e.mapSpec(src, t.Spec, w)
	default:
		return nil, nil
	}
}

// mapEach resolves a sequence at key and maps every element through spec.
func (e *Engine) mapEach(src any, key string, spec rule.Spec, w *walk) ([]any, error) {
	raw := resolve.Resolve(src, key, e.mode)

	items, ok := sequence(raw)
	if !ok {
		if raw != nil {
			e.logger.Debug("array rule found a non-array value, using an empty sequence",
				"key", key, "type", reflect.TypeOf(raw).String())
		}

		return []any{}, nil
	}

	out := make([]any, len(items))
	for i, item := range items {
		mapped, err := e.mapSpec(item, spec, w)
		if err != nil {
			return nil, err
		}

		out[i] = mapped
	}

	return out, nil
}

// sequence returns the elements of a slice or array value.
// Strings and byte slices, named ones like json.RawMessage included, are not sequences.
func sequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		return t, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range rv.Len() {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}
