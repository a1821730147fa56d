package property

import (
	"fmt"
	"reflect"

	"databinding/internal/match"
	"databinding/primitive"
)

// Getter is implemented by objects exposing properties dynamically. ok is
// false when the object does not know the property; the reflection adapter
// is then consulted.
type Getter interface {
	GetProperty(name string) (value any, ok bool)
}

// Setter is the writing counterpart of Getter. handled is false when the
// object does not know the property.
type Setter interface {
	SetProperty(name string, value any) (handled bool, err error)
}

// Conversions is the set of conversion families Set may apply when the
// written value's type differs from the property's type.
var Conversions = primitive.CategoryDefault

// Get reads the named property of obj.
func Get(obj any, name string) (any, error) {
	if isNil(obj) {
		return nil, ErrNilObject
	}

	if g, ok := obj.(Getter); ok {
		if v, ok := g.GetProperty(name); ok {
			return v, nil
		}
	}

	v := reflect.ValueOf(obj)
	p := planFor(v.Type(), name)

	if p.getter >= 0 {
		out := v.Method(p.getter).Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, &AccessError{Type: v.Type(), Name: name, Op: "get", Err: out[1].Interface().(error)}
		}

		return out[0].Interface(), nil
	}

	if p.field != nil {
		f, err := reflect.Indirect(v).FieldByIndexErr(p.field)
		if err != nil {
			return nil, &AccessError{Type: v.Type(), Name: name, Op: "get", Err: err}
		}

		return f.Interface(), nil
	}

	return nil, noSuchProperty(v.Type(), name)
}

// Set writes value into the named property of obj, coercing it to the
// property's type. A nil value writes the type's zero value.
func Set(obj any, name string, value any) error {
	if isNil(obj) {
		return ErrNilObject
	}

	if s, ok := obj.(Setter); ok {
		handled, err := s.SetProperty(name, value)
		if handled {
			return err
		}
	}

	v := reflect.ValueOf(obj)
	typ := v.Type()
	p := planFor(typ, name)

	if p.setter >= 0 {
		m := v.Method(p.setter)

		arg, err := primitive.Convert(reflect.ValueOf(value), m.Type().In(0), Conversions)
		if err != nil {
			return &AccessError{Type: typ, Name: name, Op: "set", Err: err}
		}

		out := m.Call([]reflect.Value{arg})
		if len(out) == 1 && !out[0].IsNil() {
			return &AccessError{Type: typ, Name: name, Op: "set", Err: out[0].Interface().(error)}
		}

		return nil
	}

	if p.field != nil {
		if v.Kind() != reflect.Pointer {
			return &ReadOnlyError{Type: typ, Name: name}
		}

		f, err := v.Elem().FieldByIndexErr(p.field)
		if err != nil {
			return &AccessError{Type: typ, Name: name, Op: "set", Err: err}
		}

		if !f.CanSet() {
			return &ReadOnlyError{Type: typ, Name: name}
		}

		nv, err := primitive.Convert(reflect.ValueOf(value), f.Type(), Conversions)
		if err != nil {
			return &AccessError{Type: typ, Name: name, Op: "set", Err: err}
		}

		if Equal(f.Interface(), nv.Interface()) {
			return nil
		}

		f.Set(nv)

		if n, ok := obj.(Notifier); ok {
			n.NotifyPropertyChanged(name)
		}

		return nil
	}

	if p.getter >= 0 {
		return &ReadOnlyError{Type: typ, Name: name}
	}

	return noSuchProperty(typ, name)
}

// Has reports whether obj exposes a reader, writer or field for name.
func Has(obj any, name string) bool {
	if isNil(obj) {
		return false
	}

	if g, ok := obj.(Getter); ok {
		if _, ok := g.GetProperty(name); ok {
			return true
		}
	}

	return planFor(reflect.TypeOf(obj), name).exists()
}

// Writable reports whether Set could write the named property of obj.
func Writable(obj any, name string) bool {
	if isNil(obj) {
		return false
	}

	if _, ok := obj.(Setter); ok {
		return true
	}

	typ := reflect.TypeOf(obj)
	p := planFor(typ, name)

	return p.setter >= 0 || (p.field != nil && typ.Kind() == reflect.Pointer)
}

// SupportsObserver reports whether obj can notify changes of the named
// property.
func SupportsObserver(obj any, name string) bool {
	if _, ok := obj.(Observable); !ok {
		return false
	}

	return Has(obj, name)
}

// Observe registers fn for changes of the named property of obj. Objects
// that cannot notify yield a no-op Subscription.
func Observe(obj any, name string, fn func()) Subscription {
	o, ok := obj.(Observable)
	if !ok || isNil(obj) {
		return Subscription{}
	}

	return NewSubscription(o, name, o.ObserveProperty(name, fn))
}

// Unobserve cancels a subscription returned by Observe.
func Unobserve(sub Subscription) {
	sub.Cancel()
}

// Names lists the readable properties of obj discovered by reflection.
func Names(obj any) []string {
	if isNil(obj) {
		return nil
	}

	return propertyNames(reflect.TypeOf(obj))
}

func noSuchProperty(typ reflect.Type, name string) error {
	return &NoSuchPropertyError{
		Type:       typ,
		Name:       name,
		Suggestion: match.Closest(name, propertyNames(typ)),
	}
}

// IsNil reports whether v is nil or a typed nil pointer, map, slice,
// channel, function or interface.
func IsNil(v any) bool {
	return isNil(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// String renders a property value for diagnostics.
func String(v any) string {
	if isNil(v) {
		return "<nil>"
	}

	return fmt.Sprint(v)
}
