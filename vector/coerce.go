package vector

import (
	"reflect"

	"github.com/x448/float16"
)

// flatten converts an arbitrary Go sequence into float64 values, rejecting
// anything that is not exactly one level deep.
func flatten(typ string, value any) ([]float64, error) {
	switch x := value.(type) {
	case []float64:
		return append([]float64(nil), x...), nil
	case []float32:
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = float64(v)
		}
		return out, nil
	case []int:
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = float64(v)
		}
		return out, nil
	case []float16.Float16:
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = float64(v.Float32())
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() == reflect.Pointer {
		return nil, &TypeError{Type: typ, Source: value}
	}
	if rank := rankOf(rv.Type()); rank != 1 {
		return nil, &RankError{Rank: rank}
	}
	out := make([]float64, rv.Len())
	for i := range out {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
			if elem.IsValid() && (elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array) {
				return nil, &RankError{Rank: 1 + rankOf(elem.Type())}
			}
		}
		f, ok := numeric(elem)
		if !ok {
			return nil, &TypeError{Type: typ, Source: value}
		}
		out[i] = f
	}
	return out, nil
}

// rankOf counts the slice/array nesting depth of t.
func rankOf(t reflect.Type) int {
	rank := 0
	for t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		rank++
		t = t.Elem()
	}
	return rank
}

func numeric(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
