package utils

import (
	"reflect"

	"github.com/pkg/errors"
)

// typeNameOf describes v for an error message the way a caller would write
// it when checking an interface implementation: a nil value (including a
// nil interface typed as `(SomeInterface)(nil)`, which Go collapses to a
// plain nil when boxed into interface{}) is "<unknown (nil interface)>"; a
// pointer-to-interface sentinel like `(*Encoder)(nil)` — the idiomatic way
// to name an interface type without an instance of it — names the pointed-to
// interface directly, dropping the pointer; everything else uses its
// concrete type name.
func typeNameOf(v interface{}) string {
	if v == nil {
		return "<unknown (nil interface)>"
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return t.Elem().String()
	}
	return t.String()
}

// DependencyTypeError is used when a named collaborator does not implement
// the interface its caller expected of it (e.g. a device collaborator that
// doesn't implement the stream-callback interface the dispatcher needs).
func DependencyTypeError(name string, expected, actual interface{}) error {
	return errors.Errorf("dependency %q should be an implementation of %s but it was a %T", name, typeNameOf(expected), actual)
}

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected, actual interface{}) error {
	return errors.Errorf("expected %s but got %T", typeNameOf(expected), actual)
}

// NewUnimplementedInterfaceError is used when there is a failed interface check.
func NewUnimplementedInterfaceError(expected, actual interface{}) error {
	return errors.Errorf("expected implementation of %s but got %T", typeNameOf(expected), actual)
}
