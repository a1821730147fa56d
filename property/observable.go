package property

import (
	"reflect"
	"slices"
	"sync"

	"databinding/internal/match"
)

// Observable is implemented by objects that announce property changes.
// Callbacks registered for a property run synchronously, in registration
// order, once per value-changing write.
type Observable interface {
	ObserveProperty(name string, fn func()) uint64
	UnobserveProperty(name string, id uint64)
}

// Notifier is implemented by objects that can be told a property changed.
// Set uses it after writing an exported field directly.
type Notifier interface {
	NotifyPropertyChanged(name string)
}

// Subscription identifies one observer registration. The zero Subscription
// is valid and cancelling it does nothing.
type Subscription struct {
	owner  any
	name   string
	cancel func()
}

// Cancel removes the observer. It is safe to call more than once.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Active reports whether the subscription refers to a real registration.
func (s Subscription) Active() bool {
	return s.cancel != nil
}

// Owner returns the observed object, nil for a no-op subscription.
func (s Subscription) Owner() any {
	return s.owner
}

// Name returns the observed property name as given to Observe. It is empty
// for subscriptions that do not watch a named property.
func (s Subscription) Name() string {
	return s.name
}

// NewSubscription wraps a registration made directly on an Observable.
func NewSubscription(owner Observable, name string, id uint64) Subscription {
	return Subscription{
		owner:  owner,
		name:   name,
		cancel: func() { owner.UnobserveProperty(name, id) },
	}
}

// FuncSubscription wraps an arbitrary registration on owner. cancel must be
// idempotent.
func FuncSubscription(owner any, cancel func()) Subscription {
	return Subscription{owner: owner, cancel: cancel}
}

type observer struct {
	id uint64
	fn func()
}

// Model is an embeddable Observable. The zero value is ready to use.
//
// Observers may be added or removed from inside a notification; an observer
// removed mid-dispatch is not invoked, one added mid-dispatch is first
// invoked on the next change.
type Model struct {
	mu        sync.Mutex
	nextID    uint64
	observers map[string][]observer
}

// Key returns the normalized key a property name is stored under.
func Key(name string) string {
	return match.NormalizeIdent(name)
}

// ObserveProperty registers fn for changes to the named property.
func (m *Model) ObserveProperty(name string, fn func()) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.observers == nil {
		m.observers = make(map[string][]observer)
	}

	m.nextID++
	key := Key(name)
	m.observers[key] = append(m.observers[key], observer{id: m.nextID, fn: fn})

	return m.nextID
}

// UnobserveProperty removes the registration with the given id, if present.
func (m *Model) UnobserveProperty(name string, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key(name)
	list := m.observers[key]

	i := slices.IndexFunc(list, func(o observer) bool { return o.id == id })
	if i < 0 {
		return
	}

	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(m.observers, key)
	} else {
		m.observers[key] = list
	}
}

// NotifyPropertyChanged invokes every observer of the named property.
func (m *Model) NotifyPropertyChanged(name string) {
	key := Key(name)

	m.mu.Lock()
	snapshot := slices.Clone(m.observers[key])
	m.mu.Unlock()

	for _, o := range snapshot {
		if m.registered(key, o.id) {
			o.fn()
		}
	}
}

func (m *Model) registered(key string, id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.ContainsFunc(m.observers[key], func(o observer) bool { return o.id == id })
}

// ObserverCount returns the number of observers of the named property.
func (m *Model) ObserverCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.observers[Key(name)])
}

// TotalObserverCount returns the number of observers across all properties.
func (m *Model) TotalObserverCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, list := range m.observers {
		total += len(list)
	}

	return total
}

// Update stores value into *field and notifies observers of name, unless
// the stored value already equals value. It reports whether a change was made.
func Update[T comparable](m *Model, name string, field *T, value T) bool {
	if *field == value {
		return false
	}

	*field = value
	m.NotifyPropertyChanged(name)

	return true
}

// Assign is Update for types that are not comparable with ==; equality is
// decided by Equal.
func Assign[T any](m *Model, name string, field *T, value T) bool {
	if Equal(*field, value) {
		return false
	}

	*field = value
	m.NotifyPropertyChanged(name)

	return true
}

// Equal reports whether two property values are the same. Comparable dynamic
// types use == (identity for pointers). Slices, arrays and maps are compared
// element by element with the same rule, so two slices holding distinct
// objects with equal contents differ.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return equalValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func equalValue(a, b reflect.Value) bool {
	if a.Kind() == reflect.Interface {
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}

		return Equal(a.Elem().Interface(), b.Elem().Interface())
	}

	if a.Type().Comparable() {
		return a.Interface() == b.Interface()
	}

	switch a.Kind() {
	case reflect.Slice:
		if a.IsNil() != b.IsNil() {
			return false
		}

		if a.Len() != b.Len() {
			return false
		}

		if a.Len() == 0 || a.UnsafePointer() == b.UnsafePointer() {
			return true
		}

		fallthrough
	case reflect.Array:
		for i := range a.Len() {
			if !equalValue(a.Index(i), b.Index(i)) {
				return false
			}
		}

		return true
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}

		if a.UnsafePointer() == b.UnsafePointer() {
			return true
		}

		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !equalValue(iter.Value(), bv) {
				return false
			}
		}

		return true
	default:
		return reflect.DeepEqual(a.Interface(), b.Interface())
	}
}
