package property

import (
	"reflect"
	"sync"

	"databinding/internal/match"
)

var errorType = reflect.TypeFor[error]()

// plan records how a property of one concrete type is read and written.
// Indexes of -1 / nil mean "not available".
type plan struct {
	getter int   // method index on the dynamic type
	setter int   // method index on the dynamic type
	field  []int // field index path on the dereferenced struct type
	name   string
}

func (p *plan) exists() bool {
	return p.getter >= 0 || p.setter >= 0 || p.field != nil
}

type planKey struct {
	typ  reflect.Type
	name string
}

var plans sync.Map // planKey -> *plan

func planFor(typ reflect.Type, name string) *plan {
	key := planKey{typ, Key(name)}
	if p, ok := plans.Load(key); ok {
		return p.(*plan)
	}

	p := buildPlan(typ, name)
	actual, _ := plans.LoadOrStore(key, p)

	return actual.(*plan)
}

func buildPlan(typ reflect.Type, name string) *plan {
	p := &plan{getter: -1, setter: -1, name: match.ExportedIdent(name)}
	norm := Key(name)

	getterRank := 0

	for i := range typ.NumMethod() {
		m := typ.Method(i)
		mnorm := Key(m.Name)

		switch {
		case mnorm == norm && isGetter(m.Type) && getterRank < 2:
			p.getter, getterRank = i, 2
		case mnorm == "get"+norm && isGetter(m.Type) && getterRank < 1:
			p.getter, getterRank = i, 1
		case mnorm == "set"+norm && isSetter(m.Type):
			p.setter = i
		}
	}

	st := typ
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	if st.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(st) {
			if !f.IsExported() || f.Anonymous {
				continue
			}

			if Key(f.Name) == norm {
				p.field = f.Index
				break
			}
		}
	}

	return p
}

// isGetter reports whether a method type (receiver included) looks like
// func() T or func() (T, error).
func isGetter(t reflect.Type) bool {
	if t.NumIn() != 1 {
		return false
	}

	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	default:
		return false
	}
}

// isSetter reports whether a method type (receiver included) looks like
// func(T) or func(T) error.
func isSetter(t reflect.Type) bool {
	if t.NumIn() != 2 {
		return false
	}

	switch t.NumOut() {
	case 0:
		return true
	case 1:
		return t.Out(0) == errorType
	default:
		return false
	}
}

// propertyNames lists the readable property names of typ, for suggestions.
func propertyNames(typ reflect.Type) []string {
	var names []string

	for i := range typ.NumMethod() {
		m := typ.Method(i)
		if isGetter(m.Type) {
			names = append(names, m.Name)
		}
	}

	st := typ
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	if st.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(st) {
			if f.IsExported() && !f.Anonymous {
				names = append(names, f.Name)
			}
		}
	}

	return names
}
