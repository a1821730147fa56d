package binding

import (
	"errors"
	"fmt"
	"log/slog"

	"databinding/convert"
	"databinding/propertypath"
)

// ErrComputedBidirectional is returned for a computed binding asked to write
// back into the model.
var ErrComputedBidirectional = errors.New("computed binding cannot be bidirectional")

// Options tune a binding declaration. The zero value binds bidirectionally
// where possible, with the identity conversion.
type Options struct {
	// ValueKind names the converter applied between model and target.
	ValueKind string
	// ComputedBy lists the paths, relative to the model, the bound read-only
	// property is computed from. A non-empty list makes the binding computed.
	ComputedBy []string
	Direction  Direction
	// Registry resolves ValueKind; convert.Default when nil.
	Registry *convert.Registry
	// BestEffort leaves links on unobservable objects unwatched instead of
	// failing Attach.
	BestEffort bool
	// Logger receives lifecycle and resync failure records; slog.Default()
	// when nil.
	Logger *slog.Logger
	// OnError is called with every error met while resynchronizing.
	OnError func(error)
}

// Spec is a validated binding declaration, ready to be attached to targets.
type Spec struct {
	model     any
	path      propertypath.Path
	deps      []propertypath.Path
	converter convert.Converter
	opts      Options
}

// Bind validates a binding of the property at expr on model.
func Bind(model any, expr string, opts Options) (*Spec, error) {
	if model == nil {
		return nil, errors.New("bind: nil model")
	}

	path, err := propertypath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}

	deps, err := propertypath.ParseAll(opts.ComputedBy)
	if err != nil {
		return nil, fmt.Errorf("bind %s: computed by: %w", expr, err)
	}

	if len(deps) > 0 && opts.Direction == Bidirectional {
		return nil, fmt.Errorf("bind %s: %w", expr, ErrComputedBidirectional)
	}

	registry := opts.Registry
	if registry == nil {
		registry = convert.Default
	}

	conv, err := registry.Lookup(opts.ValueKind)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", expr, err)
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Spec{model: model, path: path, deps: deps, converter: conv, opts: opts}, nil
}

// MustBind is like Bind but panics on an invalid declaration.
func MustBind(model any, expr string, opts Options) *Spec {
	s, err := Bind(model, expr, opts)
	if err != nil {
		panic(err)
	}

	return s
}

// Model returns the bound root object.
func (s *Spec) Model() any { return s.model }

// Path returns the bound property path.
func (s *Spec) Path() propertypath.Path { return s.path }

// Dependencies returns the computed-by paths.
func (s *Spec) Dependencies() []propertypath.Path { return s.deps }

// Computed reports whether the bound property is computed.
func (s *Spec) Computed() bool { return len(s.deps) > 0 }

// Converter returns the converter resolved from the value kind.
func (s *Spec) Converter() convert.Converter { return s.converter }

func (s *Spec) String() string {
	return s.path.String()
}
