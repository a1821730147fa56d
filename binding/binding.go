package binding

import (
	"errors"
	"fmt"
	"log/slog"

	"databinding/internal/chain"
	"databinding/property"
	"databinding/propertypath"
)

// Disposer is implemented by targets with a teardown lifecycle. OnDispose
// registers fn to run when the target is disposed and returns a function
// removing the registration.
type Disposer interface {
	OnDispose(fn func()) func()
}

type disposedReporter interface {
	IsDisposed() bool
}

// Binding synchronizes one target property with a model path.
type Binding struct {
	spec      *Spec
	target    any
	prop      string
	direction Direction
	log       *slog.Logger

	chains      []*chain.Chain
	targetSub   property.Subscription
	undoDispose func()

	syncing  bool
	disposed bool
	err      error
}

// Attach binds the target's property to spec. It observes the model, pushes
// the current model value into the target and, when bidirectional, observes
// the target.
func Attach(spec *Spec, target any, targetProperty string) (*Binding, error) {
	if property.IsNil(target) {
		return nil, fmt.Errorf("attach %s: %w", spec, property.ErrNilObject)
	}

	b := &Binding{
		spec:   spec,
		target: target,
		prop:   targetProperty,
		log: spec.opts.Logger.With(
			"path", spec.path.String(),
			"target", fmt.Sprintf("%T", target),
			"property", targetProperty,
		),
	}

	if err := b.attach(); err != nil {
		b.Dispose()
		return nil, fmt.Errorf("attach %s to %T.%s: %w", spec, target, targetProperty, err)
	}

	b.log.Debug("Binding attached", "direction", b.direction)

	return b, nil
}

func (b *Binding) attach() error {
	observable := property.SupportsObserver(b.target, b.prop)

	switch b.spec.opts.Direction {
	case DirectionDefault:
		b.direction = ModelToTarget
		if observable && !b.spec.Computed() {
			b.direction = Bidirectional
		}
	case Bidirectional:
		if !observable && !b.spec.opts.BestEffort {
			return fmt.Errorf("target cannot notify changes of %q", b.prop)
		}

		b.direction = Bidirectional
	default:
		b.direction = b.spec.opts.Direction
	}

	var opts []chain.Option
	if b.spec.opts.BestEffort {
		opts = append(opts, chain.BestEffort())
	}

	watched := b.spec.deps
	if !b.spec.Computed() {
		watched = []propertypath.Path{b.spec.path}
	}

	for _, p := range watched {
		c, err := chain.New(b.spec.model, p, b.modelChanged, opts...)
		if err != nil {
			return err
		}

		b.chains = append(b.chains, c)
	}

	if err := b.pushToTarget(); err != nil {
		return err
	}

	if b.direction == Bidirectional {
		b.targetSub = property.Observe(b.target, b.prop, b.targetChanged)
	}

	if d, ok := b.target.(Disposer); ok {
		b.undoDispose = d.OnDispose(b.Dispose)
	}

	return nil
}

// Dispose removes every observer the binding registered. It is safe to call
// more than once, including after the target was torn down.
func (b *Binding) Dispose() {
	if b.disposed {
		return
	}

	b.disposed = true

	for _, c := range b.chains {
		c.Dispose()
	}

	b.targetSub.Cancel()

	if b.undoDispose != nil {
		b.undoDispose()
	}

	b.log.Debug("Binding disposed")
}

// Disposed reports whether Dispose was called.
func (b *Binding) Disposed() bool {
	return b.disposed
}

// Sync pushes the current model value into the target. It is needed only
// after in-place changes the model could not notify.
func (b *Binding) Sync() error {
	if b.disposed {
		return nil
	}

	return b.record(b.pushToTarget())
}

// Err returns the last error met while resynchronizing, nil if none.
func (b *Binding) Err() error {
	return b.err
}

// Direction returns the effective direction.
func (b *Binding) Direction() Direction {
	return b.direction
}

// Target returns the bound control.
func (b *Binding) Target() any {
	return b.target
}

// Property returns the bound control property name.
func (b *Binding) Property() string {
	return b.prop
}

// Spec returns the declaration the binding was attached from.
func (b *Binding) Spec() *Spec {
	return b.spec
}

// Registrations lists the model observers currently held.
func (b *Binding) Registrations() []chain.Registration {
	var regs []chain.Registration
	for _, c := range b.chains {
		regs = append(regs, c.Registrations()...)
	}

	return regs
}

func (b *Binding) modelChanged(err error) {
	if b.disposed || b.syncing {
		return
	}

	if err != nil {
		b.record(err)
		return
	}

	b.record(b.pushToTarget())
}

func (b *Binding) targetChanged() {
	if b.disposed || b.syncing {
		return
	}

	b.record(b.pushToModel())
}

func (b *Binding) pushToTarget() error {
	if r, ok := b.target.(disposedReporter); ok && r.IsDisposed() {
		return nil
	}

	v, err := propertypath.Resolve(b.spec.model, b.spec.path)
	if err != nil {
		return err
	}

	if propertypath.IsAbsent(v) {
		v = nil
	} else if v, err = b.spec.converter.ToTarget(v); err != nil {
		return err
	}

	b.syncing = true
	defer func() { b.syncing = false }()

	return property.Set(b.target, b.prop, v)
}

func (b *Binding) pushToModel() error {
	v, err := property.Get(b.target, b.prop)
	if err != nil {
		return err
	}

	mv, err := b.spec.converter.ToModel(v)
	if err != nil {
		return err
	}

	owner, ok, err := propertypath.ResolveOwner(b.spec.model, b.spec.path)
	if err != nil || !ok {
		return err
	}

	b.syncing = true
	defer func() { b.syncing = false }()

	return owner.Set(mv)
}

func (b *Binding) record(err error) error {
	if err == nil {
		return nil
	}

	b.err = err
	b.log.Warn("Binding resync failed", "error", err)

	if b.spec.opts.OnError != nil {
		b.spec.opts.OnError(err)
	}

	return err
}

// Group owns bindings that are disposed together, last attached first.
type Group struct {
	bindings []*Binding
}

// Attach attaches spec to the target and adds the binding to the group.
func (g *Group) Attach(spec *Spec, target any, targetProperty string) (*Binding, error) {
	b, err := Attach(spec, target, targetProperty)
	if err != nil {
		return nil, err
	}

	g.Add(b)

	return b, nil
}

// Add adds b to the group.
func (g *Group) Add(b *Binding) {
	g.bindings = append(g.bindings, b)
}

// Bindings returns the bindings in attach order.
func (g *Group) Bindings() []*Binding {
	return append([]*Binding(nil), g.bindings...)
}

// Len returns the number of bindings.
func (g *Group) Len() int {
	return len(g.bindings)
}

// Sync pushes model values into every target.
func (g *Group) Sync() error {
	var errs []error
	for _, b := range g.bindings {
		errs = append(errs, b.Sync())
	}

	return errors.Join(errs...)
}

// Dispose disposes every binding in reverse attach order.
func (g *Group) Dispose() {
	for i := len(g.bindings) - 1; i >= 0; i-- {
		g.bindings[i].Dispose()
	}

	g.bindings = nil
}
