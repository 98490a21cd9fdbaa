// Package utils holds small generic helpers shared by the query packages.
package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// MapToStruct decodes a record map into a new T, matching keys against the
// struct's json tags. T must be a struct or a pointer to one. Keys without a
// matching field are ignored.
//
//	type Person struct {
//		Name  string `json:"name"`
//		Age   int    `json:"age,string"`
//	}
//	p, err := MapToStruct[Person](map[string]any{"name": "jane", "age": "41"})
func MapToStruct[T any](input map[string]any) (T, error) {
	var zero T
	if input == nil {
		return zero, fmt.Errorf("map to struct: input map is nil")
	}

	typ := reflect.TypeOf(zero)
	if typ == nil {
		return zero, fmt.Errorf("map to struct: target must be a struct or pointer to struct, got an interface")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("map to struct: target must be a struct or pointer to struct, got %s", typ.Kind())
	}

	data, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("map to struct: encode input: %w", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("map to struct: decode into %s: %w", typ.Name(), err)
	}
	return out, nil
}
