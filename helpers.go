package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// This file holds the scalar coercion helpers shared by condition
// evaluation and the built-in rule table. Snapshot values arrive with
// whatever type the record stored (JSON decoding yields float64, form
// input yields string), so rule checks coerce rather than type-assert.

// toStringValue renders a scalar as the string a length/format rule
// should inspect. Returns false for values with no sensible string form
// (structs, slices, maps).
func toStringValue(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case []byte:
		return string(s), true
	case bool:
		return strconv.FormatBool(s), true
	case fmt.Stringer:
		return s.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}

// toFloat coerces numeric scalars and numeric strings to float64.
func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// toInt coerces integer scalars, fraction-free floats and integer strings
// to int64.
func toInt(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		n := int64(f)
		return n, float64(n) == f
	}
	return 0, false
}

// runeLength is the character count used by the length* rules.
func runeLength(v any) (int, bool) {
	s, ok := toStringValue(v)
	if !ok {
		return 0, false
	}
	return utf8.RuneCountInString(s), true
}

// isEmptyValue reports whether a value counts as "not provided" for the
// required rule and the optional short-circuit. Zero numbers and false
// are values, not absence.
func isEmptyValue(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	case []byte:
		return len(s) == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// looseEqual compares two scalars the way conditions and the in/equals
// rules do: deep equality first, then numeric equality so that 30, 30.0
// and int64(30) match across snapshot encodings. Strings are never
// coerced to numbers.
func looseEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	_, aStr := a.(string)
	_, bStr := b.(string)
	if aStr || bStr {
		return false
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}
