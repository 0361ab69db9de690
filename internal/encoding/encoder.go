// Package encoding serializes analysis results for the outbound boundary.
// Results must never carry NaN or Infinity across that boundary, so Marshal
// rewrites non-finite floats to null before JSON encoding.
package encoding

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// Marshal encodes v as JSON with non-finite floats replaced by null.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(Sanitize(v))
}

// SafeFloat returns a pointer to f, or nil if f is NaN or infinite.
// Useful for individual optional fields.
func SafeFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Sanitize deep-copies v into a plain map/slice/value tree, replacing every
// non-finite float with nil. Types with their own JSON marshaling (such as
// time.Time) pass through untouched.
func Sanitize(v any) any {
	if v == nil {
		return nil
	}
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	if rv.Kind() != reflect.Pointer && rv.Type().Implements(jsonMarshalerType) {
		return rv.Interface()
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem())

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out

	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				// Non-string keys fall back to plain encoding.
				return rv.Interface()
			}
			out[key] = sanitizeValue(iter.Value())
		}
		return out

	case reflect.Struct:
		return sanitizeStruct(rv)

	default:
		return rv.Interface()
	}
}

func sanitizeStruct(rv reflect.Value) any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitempty := jsonFieldName(field)
		if name == "-" {
			continue
		}

		fv := rv.Field(i)
		if omitempty && fv.IsZero() {
			continue
		}

		out[name] = sanitizeValue(fv)
	}

	return out
}

func jsonFieldName(field reflect.StructField) (name string, omitempty bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty
}
