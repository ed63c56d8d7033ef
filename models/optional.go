package models

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Optional is a field of a partial update. Set is true whenever the key was
// present in the request body, including an explicit null.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		if !nullable[T]() {
			return fmt.Errorf("value cannot be null")
		}
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func nullable[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	}
	return false
}

// column sets cols[name] when o was supplied. Nil pointers become SQL NULL.
func column[T any](cols map[string]interface{}, name string, o Optional[T]) {
	if !o.Set {
		return
	}
	v := reflect.ValueOf(o.Value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			cols[name] = nil
			return
		}
		cols[name] = v.Elem().Interface()
		return
	}
	cols[name] = o.Value
}
