package propertypath

import (
	"reflect"

	"databinding/collection"
	"databinding/primitive"
	"databinding/property"
	"databinding/utils"
)

type absent struct{}

func (absent) String() string { return "<absent>" }

// Absent is returned by Resolve when a link of the path is missing.
var Absent any = absent{}

// IsAbsent reports whether v is Absent or nil, typed nil included.
func IsAbsent(v any) bool {
	if _, ok := v.(absent); ok {
		return true
	}

	return property.IsNil(v)
}

// Resolve evaluates p against root. It returns Absent when an intermediate
// value is nil or an index is out of range; segments past a missing link are
// never read.
func Resolve(root any, p Path) (any, error) {
	return resolveTo(root, p, p.Len())
}

// Step evaluates a single segment against owner.
func Step(owner any, seg Segment) (any, error) {
	if IsAbsent(owner) {
		return Absent, nil
	}

	v, err := property.Get(owner, seg.Name)
	if err != nil {
		return nil, err
	}

	if !seg.HasIndex {
		return v, nil
	}

	if IsAbsent(v) {
		return Absent, nil
	}

	return Index(v, seg.Index)
}

func resolveTo(root any, p Path, n int) (any, error) {
	cur := root

	for i := range n {
		v, err := Step(cur, p.Segment(i))
		if err != nil {
			return nil, &ResolveError{Path: p, Depth: i, Err: err}
		}

		if v == Absent {
			return Absent, nil
		}

		cur = v
	}

	return cur, nil
}

// Index returns element i of v, which must be a collection.Sequence or a Go
// slice or array. An out-of-range index yields Absent.
func Index(v any, i int) (any, error) {
	if seq, ok := v.(collection.Sequence); ok {
		e, ok := seq.ValueAt(i)
		if !ok {
			return Absent, nil
		}

		return e, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if !utils.IsIndex(i, rv.Len()) {
			return Absent, nil
		}

		return rv.Index(i).Interface(), nil
	default:
		return nil, &UnsupportedIndexError{Type: reflect.TypeOf(v), Index: i}
	}
}

// Owner is the write location of a path's terminal segment: either the
// property Name of Object or, for an indexed terminal, position Index of
// the collection Object holds under Name.
type Owner struct {
	Object     any
	Name       string
	Collection any
	Index      int
	HasIndex   bool
}

// ResolveOwner resolves everything but the terminal link of p. ok is false
// when a link is missing, in which case writes must be dropped.
func ResolveOwner(root any, p Path) (owner Owner, ok bool, err error) {
	parent, err := resolveTo(root, p, p.Len()-1)
	if err != nil {
		return Owner{}, false, err
	}

	if IsAbsent(parent) {
		return Owner{}, false, nil
	}

	last := p.Last()
	owner = Owner{Object: parent, Name: last.Name, Index: last.Index, HasIndex: last.HasIndex}

	if !last.HasIndex {
		return owner, true, nil
	}

	coll, err := property.Get(parent, last.Name)
	if err != nil {
		return Owner{}, false, &ResolveError{Path: p, Depth: p.Len() - 1, Err: err}
	}

	if IsAbsent(coll) {
		return Owner{}, false, nil
	}

	owner.Collection = coll

	return owner, true, nil
}

// Set writes value at the owner's location. Writing to an index of a plain
// Go slice past its end is dropped.
func (o Owner) Set(value any) error {
	if !o.HasIndex {
		return property.Set(o.Object, o.Name, value)
	}

	if seq, ok := o.Collection.(collection.Sequence); ok {
		return seq.SetAt(o.Index, value)
	}

	rv := reflect.ValueOf(o.Collection)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch {
	case rv.Kind() != reflect.Slice && !(rv.Kind() == reflect.Array && rv.CanAddr()):
		return &UnsupportedIndexError{Type: reflect.TypeOf(o.Collection), Index: o.Index}
	case o.Index >= rv.Len():
		return nil
	}

	ev, err := primitive.Convert(reflect.ValueOf(value), rv.Type().Elem(), property.Conversions)
	if err != nil {
		return err
	}

	rv.Index(o.Index).Set(ev)

	return nil
}
