package util

import (
	"reflect"

	"github.com/pkg/errors"
)

// IsStructInitialized reports whether all pointer and interface fields of the
// given struct are non-nil. Used by the server readiness probe.
func IsStructInitialized(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("not a struct")
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		switch field.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if field.IsNil() {
				return errors.Errorf("struct field %q is not initialized", t.Field(i).Name)
			}
		default:
			// value fields are always considered initialized
		}
	}

	return nil
}
