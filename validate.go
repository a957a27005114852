package lru

import "reflect"

// isNil reports whether v is a nil interface or a nil pointer, map, slice,
// channel or func. Other kinds can never be nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func,
		reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

func validateKey[K comparable](key K) error {
	if isNil(key) {
		return ErrInvalidKey
	}
	return nil
}

func validateValue[V any](value V) error {
	if isNil(value) {
		return ErrInvalidValue
	}
	return nil
}
