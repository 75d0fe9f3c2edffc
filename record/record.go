// Package record provides the destination object produced by the mapping engine:
// a string-keyed map that remembers insertion order.
package record

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is an insertion-ordered destination object.
// It marshals to JSON and YAML with keys in insertion order.
type Record = orderedmap.OrderedMap[string, any]

// New creates an empty record.
func New() *Record {
	return orderedmap.New[string, any]()
}

// Of builds a record from alternating key/value pairs.
// It panics if a key is not a string or the pair list is odd.
func Of(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("record.Of: odd number of arguments")
	}

	r := New()

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("record.Of: key must be a string")
		}

		r.Set(key, kv[i+1])
	}

	return r
}

// Keys returns the record keys in insertion order.
func Keys(r *Record) []string {
	if r == nil {
		return nil
	}

	keys := make([]string, 0, r.Len())
	for pair := r.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

// Has reports whether key is present, regardless of its value.
func Has(r *Record, key string) bool {
	if r == nil {
		return false
	}

	_, ok := r.Get(key)

	return ok
}

// ToMap converts a record into plain Go maps and slices, recursively.
// Nested records inside slices and maps are converted as well; key order is lost.
func ToMap(r *Record) map[string]any {
	if r == nil {
		return nil
	}

	out := make(map[string]any, r.Len())
	for pair := r.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = plain(pair.Value)
	}

	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Record:
		return ToMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}

		return out
	default:
		return v
	}
}
