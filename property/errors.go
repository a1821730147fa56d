package property

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNilObject is returned when a property is accessed on a nil object.
var ErrNilObject = errors.New("property access on nil object")

// NoSuchPropertyError reports a property name the object exposes neither a
// reader, a writer nor a field for.
type NoSuchPropertyError struct {
	Type reflect.Type
	Name string
	// Suggestion is the most similar existing property, if any.
	Suggestion string
}

func (e *NoSuchPropertyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no property %q on %v (did you mean %q?)", e.Name, e.Type, e.Suggestion)
	}

	return fmt.Sprintf("no property %q on %v", e.Name, e.Type)
}

// ReadOnlyError reports a write to a property that only has a reader.
type ReadOnlyError struct {
	Type reflect.Type
	Name string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("property %q on %v is read-only", e.Name, e.Type)
}

// AccessError wraps a failure raised by a property's own reader or writer,
// or by coercing the written value to the property type.
type AccessError struct {
	Type reflect.Type
	Name string
	Op   string // "get" or "set"
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %q on %v: %v", e.Op, e.Name, e.Type, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
