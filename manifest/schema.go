package manifest

import (
	"fmt"
	"strings"

	"databinding/binding"
)

// CurrentVersion is the manifest schema version written by this package.
const CurrentVersion = "1"

// DefaultProperty is the target property bound when an entry names none.
const DefaultProperty = "text"

// File is a parsed binding manifest.
type File struct {
	// Version of the manifest schema.
	Version string `yaml:"version,omitempty"`

	// Bindings is the list of declarations, attached in order.
	Bindings []Entry `yaml:"bindings"`
}

// Entry declares one binding.
type Entry struct {
	// Target names the control, resolved by Apply's target map.
	Target string `yaml:"target"`

	// Property is the control property, DefaultProperty when empty.
	Property string `yaml:"property,omitempty"`

	// Path is the model property path.
	Path string `yaml:"path"`

	// Kind is the value kind converting between model and control.
	Kind string `yaml:"kind,omitempty"`

	// Direction is "", "default", "model_to_target" or "bidirectional".
	Direction string `yaml:"direction,omitempty"`

	// ComputedBy lists dependency paths for a computed property.
	ComputedBy StringOrArray `yaml:"computed_by,omitempty"`

	// BestEffort tolerates unobservable links.
	BestEffort bool `yaml:"best_effort,omitempty"`
}

// Name identifies the entry in diagnostics.
func (e *Entry) Name() string {
	return e.Target + "." + e.Property
}

// Options merges the entry into base.
func (e *Entry) Options(base binding.Options) (binding.Options, error) {
	dir, err := ParseDirection(e.Direction)
	if err != nil {
		return binding.Options{}, err
	}

	opts := base
	opts.ValueKind = e.Kind
	opts.ComputedBy = []string(e.ComputedBy)
	opts.Direction = dir
	opts.BestEffort = base.BestEffort || e.BestEffort

	return opts, nil
}

var directions = map[string]binding.Direction{
	"":                binding.DirectionDefault,
	"default":         binding.DirectionDefault,
	"model_to_target": binding.ModelToTarget,
	"read":            binding.ModelToTarget,
	"one_way":         binding.ModelToTarget,
	"bidirectional":   binding.Bidirectional,
	"two_way":         binding.Bidirectional,
}

// ParseDirection maps a manifest direction name to a binding.Direction.
func ParseDirection(s string) (binding.Direction, error) {
	if d, ok := directions[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}

	return 0, fmt.Errorf("unknown direction %q", s)
}

// DirectionName returns the canonical manifest name of d.
func DirectionName(d binding.Direction) string {
	switch d {
	case binding.ModelToTarget:
		return "model_to_target"
	case binding.Bidirectional:
		return "bidirectional"
	default:
		return ""
	}
}
