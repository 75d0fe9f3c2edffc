package engine

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"object-mapper/record"
	"object-mapper/rule"
)

// MapInto maps src through spec and decodes the resulting record into a T.
//
// Destination fields are matched against T's json tag names (or field names, case
// insensitively). Values are not coerced: a string cannot fill an int field.
// Errors returned by function rules are passed through unchanged.
func MapInto[T any](e *Engine, src any, spec rule.Spec) (T, error) {
	var out T

	rec, err := e.Map(src, spec)
	if err != nil {
		return out, err
	}

	if err := Decode(rec, &out); err != nil {
		return out, err
	}

	return out, nil
}

// MapModelInto maps src through the bound specification into a T.
func MapModelInto[T any](m *Model, src any) (T, error) {
	return MapInto[T](m.engine, src, m.spec)
}

// Decode copies a destination record into target, which must be a non-nil pointer.
func Decode(rec *record.Record, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(record.ToMap(rec)); err != nil {
		return fmt.Errorf("failed to decode mapped record: %w", err)
	}

	return nil
}
