package collection

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"

	"databinding/primitive"
	"databinding/property"
	"databinding/utils"
)

// ErrIndexOutOfRange is returned for a position outside the list.
var ErrIndexOutOfRange = errors.New("index out of range")

// Sequence is the untyped read/write view of an ordered collection.
type Sequence interface {
	Len() int
	ValueAt(i int) (any, bool)
	SetAt(i int, value any) error
}

// Observable is implemented by collections reporting structural changes.
type Observable interface {
	ObserveChanges(fn func(Change)) property.Subscription
	ObserverCount() int
}

// List is an observable ordered sequence of T. The zero value is an empty
// list ready to use. Observers run synchronously after each mutation, in
// registration order.
type List[T any] struct {
	mu        sync.Mutex
	items     []T
	nextID    uint64
	observers []changeObserver
}

type changeObserver struct {
	id uint64
	fn func(Change)
}

var (
	_ Sequence   = (*List[int])(nil)
	_ Observable = (*List[int])(nil)
)

// NewList returns a list holding items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.items)
}

// At returns the element at i and whether i is in range.
func (l *List[T]) At(i int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !utils.IsIndex(i, len(l.items)) {
		var zero T
		return zero, false
	}

	return l.items[i], true
}

// Items returns a copy of the elements.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.items)
}

// All iterates over a snapshot of the elements.
func (l *List[T]) All() iter.Seq2[int, T] {
	return slices.All(l.Items())
}

// Index returns the position of the first element equal to v, or -1.
func (l *List[T]) Index(v T) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.IndexFunc(l.items, func(e T) bool { return property.Equal(any(e), any(v)) })
}

// Append adds values at the end.
func (l *List[T]) Append(values ...T) {
	if len(values) == 0 {
		return
	}

	l.mu.Lock()
	at := len(l.items)
	l.items = append(l.items, values...)
	l.mu.Unlock()

	l.emit(Change{Op: OpInsert, Index: at, Count: len(values)})
}

// Insert adds values before position i; i may equal Len.
func (l *List[T]) Insert(i int, values ...T) error {
	l.mu.Lock()
	if !utils.IsInRange(0, i, len(l.items)) {
		n := len(l.items)
		l.mu.Unlock()

		return fmt.Errorf("insert at %d of %d: %w", i, n, ErrIndexOutOfRange)
	}

	l.items = slices.Insert(l.items, i, values...)
	l.mu.Unlock()

	if len(values) > 0 {
		l.emit(Change{Op: OpInsert, Index: i, Count: len(values)})
	}

	return nil
}

// Set stores v at position i. Setting past the end grows the list, filling
// the gap with zero values. Storing an equal value reports no change.
func (l *List[T]) Set(i int, v T) error {
	l.mu.Lock()
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("set at %d: %w", i, ErrIndexOutOfRange)
	}

	var change Change

	if n := len(l.items); i >= n {
		l.items = append(l.items, make([]T, i-n+1)...)
		l.items[i] = v
		change = Change{Op: OpSet, Index: n, Count: i - n + 1}
	} else {
		if property.Equal(any(l.items[i]), any(v)) {
			l.mu.Unlock()
			return nil
		}

		l.items[i] = v
		change = Change{Op: OpSet, Index: i, Count: 1}
	}
	l.mu.Unlock()

	l.emit(change)

	return nil
}

// DeleteAt removes and returns the element at i.
func (l *List[T]) DeleteAt(i int) (T, error) {
	l.mu.Lock()
	if !utils.IsIndex(i, len(l.items)) {
		n := len(l.items)
		l.mu.Unlock()

		var zero T

		return zero, fmt.Errorf("delete at %d of %d: %w", i, n, ErrIndexOutOfRange)
	}

	v := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	l.mu.Unlock()

	l.emit(Change{Op: OpDelete, Index: i, Count: 1})

	return v, nil
}

// Delete removes every element equal to v and returns how many were removed.
func (l *List[T]) Delete(v T) int {
	l.mu.Lock()
	first := -1
	kept := l.items[:0:0]

	for i, e := range l.items {
		if property.Equal(any(e), any(v)) {
			if first < 0 {
				first = i
			}

			continue
		}

		kept = append(kept, e)
	}

	removed := len(l.items) - len(kept)
	if removed > 0 {
		l.items = kept
	}
	l.mu.Unlock()

	if removed > 0 {
		l.emit(Change{Op: OpDelete, Index: first, Count: -1})
	}

	return removed
}

// Clear removes every element.
func (l *List[T]) Clear() {
	l.mu.Lock()
	n := len(l.items)
	l.items = nil
	l.mu.Unlock()

	if n > 0 {
		l.emit(Change{Op: OpClear, Index: 0, Count: -1})
	}
}

// Replace swaps the whole contents for items.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	if len(items) == len(l.items) && (len(items) == 0 || property.Equal(any(l.items), any(items))) {
		l.mu.Unlock()
		return
	}

	l.items = slices.Clone(items)
	l.mu.Unlock()

	l.emit(Change{Op: OpReplace, Index: 0, Count: -1})
}

// ValueAt implements Sequence.
func (l *List[T]) ValueAt(i int) (any, bool) {
	v, ok := l.At(i)
	if !ok {
		return nil, false
	}

	return v, true
}

// SetAt implements Sequence, coercing value to T.
func (l *List[T]) SetAt(i int, value any) error {
	if v, ok := value.(T); ok {
		return l.Set(i, v)
	}

	if property.IsNil(value) {
		var zero T
		return l.Set(i, zero)
	}

	cv, err := primitive.Convert(reflect.ValueOf(value), reflect.TypeFor[T](), property.Conversions)
	if err != nil {
		return fmt.Errorf("set at %d: %w", i, err)
	}

	return l.Set(i, cv.Interface().(T))
}

// ObserveChanges registers fn for every structural change.
func (l *List[T]) ObserveChanges(fn func(Change)) property.Subscription {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.observers = append(l.observers, changeObserver{id: id, fn: fn})
	l.mu.Unlock()

	return property.FuncSubscription(l, func() { l.unobserve(id) })
}

// ObserverCount returns the number of registered change observers.
func (l *List[T]) ObserverCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.observers)
}

func (l *List[T]) unobserve(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.observers = slices.DeleteFunc(l.observers, func(o changeObserver) bool { return o.id == id })
}

func (l *List[T]) emit(c Change) {
	l.mu.Lock()
	snapshot := slices.Clone(l.observers)
	l.mu.Unlock()

	for _, o := range snapshot {
		if l.registered(o.id) {
			o.fn(c)
		}
	}
}

func (l *List[T]) registered(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.ContainsFunc(l.observers, func(o changeObserver) bool { return o.id == id })
}
