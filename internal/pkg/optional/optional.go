// Package optional distinguishes the three states a JSON member can be in:
// absent, explicitly null, or carrying a value.
package optional

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Value: v}
}

func NullOf[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// Present reports whether a non-null value was supplied.
func (o Value[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr returns the value as a pointer, nil when absent or null.
func (o Value[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON is only invoked for members that appear in the document,
// which is what marks the value as set.
func (o *Value[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
