// Package convert maps binding value kinds ("int", "bool", ...) to the
// text conversions applied between a model value and a control property.
package convert

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"databinding/internal/match"
	"databinding/primitive"
)

// Converter parses control text into a model value and formats a model
// value as control text.
type Converter struct {
	Kind   string
	Parse  func(string) (any, error)
	Format func(any) (string, error)
}

// UnknownKindError reports a value kind no converter is registered for.
type UnknownKindError struct {
	Kind       string
	Suggestion string
}

func (e *UnknownKindError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown value kind %q (did you mean %q?)", e.Kind, e.Suggestion)
	}

	return fmt.Sprintf("unknown value kind %q", e.Kind)
}

// Registry holds converters by kind name. Kind names are case-insensitive.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// Register adds c under its Kind and every alias, replacing earlier entries.
func (r *Registry) Register(c Converter, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.converters == nil {
		r.converters = make(map[string]Converter)
	}

	for _, name := range append([]string{c.Kind}, aliases...) {
		r.converters[strings.ToLower(name)] = c
	}
}

// Lookup returns the converter for kind. The empty kind is the identity.
func (r *Registry) Lookup(kind string) (Converter, error) {
	if kind == "" {
		return Identity, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.converters[strings.ToLower(kind)]; ok {
		return c, nil
	}

	return Converter{}, &UnknownKindError{Kind: kind, Suggestion: match.Closest(kind, r.kindsLocked())}
}

// Kinds lists the registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.kindsLocked()
}

func (r *Registry) kindsLocked() []string {
	kinds := make([]string, 0, len(r.converters))
	for k := range r.converters {
		kinds = append(kinds, k)
	}

	slices.Sort(kinds)

	return kinds
}

// Identity passes values through untouched in both directions.
var Identity = Converter{Kind: "identity"}

// ToModel converts a control value into the model representation.
func (c Converter) ToModel(v any) (any, error) {
	if c.Parse == nil {
		return v, nil
	}

	s, ok := v.(string)
	if !ok {
		text, err := primitive.ConvertValue(v, stringType, primitive.CategoryAll)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Kind, err)
		}

		s = text.(string)
	}

	return c.Parse(s)
}

// ToTarget converts a model value into the control representation.
func (c Converter) ToTarget(v any) (any, error) {
	if c.Format == nil {
		return v, nil
	}

	return c.Format(v)
}

var stringType = reflect.TypeFor[string]()

// Default is the process-wide registry pre-populated with the built-in kinds.
var Default = NewRegistry()

func init() {
	Default.Register(Identity)
	Default.Register(typed[string]("string"), "text")
	Default.Register(typed[int]("int"), "fixnum", "integer")
	Default.Register(typed[float64]("float"), "double", "number")
	Default.Register(typed[bool]("bool"), "boolean")
	Default.Register(typed[time.Duration]("duration"))
	Default.Register(typed[time.Time]("time"), "datetime")
}

// typed returns a converter whose model side is T and whose control side is
// text, both directions going through primitive conversions. Blank text
// parses to the zero value of T.
func typed[T any](kind string) Converter {
	to := reflect.TypeFor[T]()

	return Converter{
		Kind: kind,
		Parse: func(s string) (any, error) {
			if strings.TrimSpace(s) == "" {
				return reflect.Zero(to).Interface(), nil
			}

			v, err := primitive.ConvertValue(s, to, primitive.CategoryAll)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", kind, err)
			}

			return v, nil
		},
		Format: func(v any) (string, error) {
			text, err := primitive.ConvertValue(v, stringType, primitive.CategoryAll)
			if err != nil {
				return "", fmt.Errorf("%s: %w", kind, err)
			}

			return text.(string), nil
		},
	}
}

// Typed builds a text converter for a model type T, for callers registering
// their own kinds.
func Typed[T any](kind string) Converter {
	return typed[T](kind)
}
