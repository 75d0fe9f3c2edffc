package resolve

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Jeffail/gabs/v2"

	"object-mapper/internal/common"
	"object-mapper/record"
)

// Field returns the own property name of v and whether it is present.
//
// Supported shapes:
//   - *record.Record: key lookup
//   - *gabs.Container: lookup on the wrapped document
//   - maps with string-kinded keys: key lookup, a present nil value counts
//   - structs: exported field by Go name, then by json tag name, including promoted fields
//   - slices and arrays: decimal index
//
// Pointers and interfaces are dereferenced first. Any other value owns no properties.
func Field(v any, name string) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case *record.Record:
		if t == nil {
			return nil, false
		}

		return t.Get(name)
	case map[string]any:
		val, ok := t[name]
		return val, ok
	case *gabs.Container:
		if t == nil {
			return nil, false
		}

		return Field(t.Data(), name)
	}

	rv := deref(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}

		val := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}

		return val.Interface(), true
	case reflect.Struct:
		return structField(rv, name)
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= rv.Len() || strconv.Itoa(i) != name {
			return nil, false
		}

		return rv.Index(i).Interface(), true
	default:
		return nil, false
	}
}

// deref dereferences pointers and interfaces; nil yields an invalid value.
func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

// structField finds an exported field by name, falling back to its json tag.
// Fields promoted from embedded structs are visible; a nil embedded pointer hides them.
func structField(rv reflect.Value, name string) (any, bool) {
	t := rv.Type()

	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		return fieldAt(rv, f.Index)
	}

	var (
		found reflect.StructField
		ok    bool
	)

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || jsonName(f) != name {
			continue
		}

		if !ok || len(f.Index) < len(found.Index) {
			found, ok = f, true
		}
	}

	if !ok {
		return nil, false
	}

	return fieldAt(rv, found.Index)
}

func fieldAt(rv reflect.Value, index []int) (any, bool) {
	fv, err := rv.FieldByIndexErr(index)
	if err != nil || !fv.CanInterface() {
		return nil, false
	}

	return fv.Interface(), true
}

func jsonName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return ""
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}

	return name
}

// entry is one own property of an object-shaped value.
type entry struct {
	key   string
	value any
}

// entries lists the own properties of v in traversal order:
// records in insertion order, maps sorted by key, structs in declaration order,
// slices and arrays by index. Non-object values yield nil.
func entries(v any) []entry {
	switch t := v.(type) {
	case nil:
		return nil
	case *record.Record:
		if t == nil {
			return nil
		}

		out := make([]entry, 0, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, entry{key: pair.Key, value: pair.Value})
		}

		return out
	case map[string]any:
		out := make([]entry, 0, len(t))
		for _, k := range common.SortedKeys(t) {
			out = append(out, entry{key: k, value: t[k]})
		}

		return out
	case *gabs.Container:
		if t == nil {
			return nil
		}

		return entries(t.Data())
	}

	rv := deref(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}

		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			out = append(out, entry{key: k.String(), value: rv.MapIndex(k).Interface()})
		}

		return out
	case reflect.Struct:
		t := rv.Type()

		out := make([]entry, 0, t.NumField())
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}

			key := f.Name
			if jn := jsonName(f); jn != "" {
				key = jn
			}

			out = append(out, entry{key: key, value: rv.Field(i).Interface()})
		}

		return out
	case reflect.Slice, reflect.Array:
		out := make([]entry, 0, rv.Len())
		for i := range rv.Len() {
			out = append(out, entry{key: strconv.Itoa(i), value: rv.Index(i).Interface()})
		}

		return out
	default:
		return nil
	}
}

// isObject reports whether v can own properties and is worth descending into.
func isObject(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case *record.Record:
		return t != nil
	case *gabs.Container:
		return t != nil && isObject(t.Data())
	}

	rv := deref(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// identityKey identifies the referenced storage behind a value.
type identityKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// identity returns a key identifying the referenced storage of v, if any.
// Values without reference identity (plain structs, arrays) return ok=false.
func identity(v any) (identityKey, bool) {
	if c, ok := v.(*gabs.Container); ok && c != nil {
		return identity(c.Data())
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return identityKey{}, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Map:
		if rv.IsNil() {
			return identityKey{}, false
		}

		return identityKey{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.IsNil() {
			return identityKey{}, false
		}

		return identityKey{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, true
	default:
		return identityKey{}, false
	}
}
