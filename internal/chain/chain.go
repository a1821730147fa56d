// Package chain keeps observers registered along every link of a property
// path, re-wiring the links below any link that changes.
//
// After any notification a Chain holds exactly the registrations a chain
// freshly built against the current object graph would hold.
package chain

import (
	"fmt"
	"reflect"

	"databinding/collection"
	"databinding/property"
	"databinding/propertypath"
)

// NotObservableError reports an owner reached along the path that cannot
// notify changes of the property the path reads from it.
type NotObservableError struct {
	Path  propertypath.Path
	Depth int
	Type  reflect.Type
}

func (e *NotObservableError) Error() string {
	return fmt.Sprintf("path %s: %v cannot notify changes of %q", e.Path, e.Type, e.Path.Segment(e.Depth).Name)
}

// Option configures a Chain.
type Option func(*Chain)

// BestEffort makes links on unobservable owners silently unwatched instead
// of failing the build.
func BestEffort() Option {
	return func(c *Chain) { c.strict = false }
}

// Kind tells what a Registration watches.
type Kind string

const (
	KindProperty Kind = "property" // a named property of Owner
	KindItems    Kind = "items"    // structure of the collection held by an indexed link
	KindValue    Kind = "value"    // structure of a terminal collection value
)

// Registration describes one live observer held by a Chain.
type Registration struct {
	Depth int
	Kind  Kind
	Owner any
	Name  string
}

// node holds the registrations of one path segment.
type node struct {
	owner any
	prop  property.Subscription
	items property.Subscription
	value property.Subscription
}

func (n *node) release() {
	n.prop.Cancel()
	n.releaseHeld()
	*n = node{}
}

// releaseHeld drops the registrations on the value read from the owner,
// keeping the owner's property registration.
func (n *node) releaseHeld() {
	n.items.Cancel()
	n.value.Cancel()
	n.items = property.Subscription{}
	n.value = property.Subscription{}
}

// Chain observes every link of a path from a fixed root.
type Chain struct {
	root     any
	path     propertypath.Path
	onChange func(error)
	strict   bool
	disposed bool
	nodes    []node
}

// New builds a chain of observers along p from root. onChange runs after
// the chain has re-wired itself in response to a change of any link; it
// receives the error, if any, met while re-resolving.
func New(root any, p propertypath.Path, onChange func(error), opts ...Option) (*Chain, error) {
	c := &Chain{
		root:     root,
		path:     p,
		onChange: onChange,
		strict:   true,
		nodes:    make([]node, p.Len()),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.build(0, root, true); err != nil {
		c.Dispose()
		return nil, err
	}

	return c, nil
}

// Root returns the object the chain starts from.
func (c *Chain) Root() any {
	return c.root
}

// Path returns the observed path.
func (c *Chain) Path() propertypath.Path {
	return c.path
}

// Value resolves the path against the current object graph.
func (c *Chain) Value() (any, error) {
	return propertypath.Resolve(c.root, c.path)
}

// Dispose removes every registration. It is safe to call more than once.
func (c *Chain) Dispose() {
	if c.disposed {
		return
	}

	c.disposed = true
	c.teardown(0)
}

// Disposed reports whether Dispose was called.
func (c *Chain) Disposed() bool {
	return c.disposed
}

// Registrations lists the live observers, outermost first.
func (c *Chain) Registrations() []Registration {
	var regs []Registration

	for i, n := range c.nodes {
		name := c.path.Segment(i).Name

		if n.prop.Active() {
			regs = append(regs, Registration{Depth: i, Kind: KindProperty, Owner: n.owner, Name: name})
		}

		if n.items.Active() {
			regs = append(regs, Registration{Depth: i, Kind: KindItems, Owner: n.items.Owner(), Name: name})
		}

		if n.value.Active() {
			regs = append(regs, Registration{Depth: i, Kind: KindValue, Owner: n.value.Owner(), Name: name})
		}
	}

	return regs
}

// build registers observers from depth from onward, owner being the object
// segment from is evaluated against. The property registration at depth
// from is kept when watchOwner is false.
func (c *Chain) build(from int, owner any, watchOwner bool) error {
	last := c.path.Len() - 1

	for i := from; i <= last; i++ {
		if propertypath.IsAbsent(owner) {
			return nil
		}

		seg := c.path.Segment(i)
		n := &c.nodes[i]

		v, err := property.Get(owner, seg.Name)
		if err != nil {
			return &propertypath.ResolveError{Path: c.path, Depth: i, Err: err}
		}

		if watchOwner || i > from {
			if err := c.watchProperty(i, owner); err != nil {
				return err
			}
		}

		if seg.HasIndex {
			if propertypath.IsAbsent(v) {
				return nil
			}

			if obs, ok := v.(collection.Observable); ok {
				n.items = obs.ObserveChanges(func(ch collection.Change) { c.itemsChanged(i, ch) })
			}

			if v, err = propertypath.Index(v, seg.Index); err != nil {
				return &propertypath.ResolveError{Path: c.path, Depth: i, Err: err}
			}
		}

		if i == last && !propertypath.IsAbsent(v) {
			if obs, ok := v.(collection.Observable); ok {
				n.value = obs.ObserveChanges(func(collection.Change) { c.notify(nil) })
			}
		}

		owner = v
	}

	return nil
}

func (c *Chain) watchProperty(i int, owner any) error {
	n := &c.nodes[i]
	n.owner = owner

	if _, ok := owner.(property.Observable); !ok {
		if c.strict {
			return &NotObservableError{Path: c.path, Depth: i, Type: reflect.TypeOf(owner)}
		}

		return nil
	}

	n.prop = property.Observe(owner, c.path.Segment(i).Name, func() { c.propertyChanged(i) })

	return nil
}

// teardown releases every registration at depth from and below.
func (c *Chain) teardown(from int) {
	for i := len(c.nodes) - 1; i >= from; i-- {
		c.nodes[i].release()
	}
}

// rewire rebuilds everything below the property registration at depth i.
func (c *Chain) rewire(i int) {
	if c.disposed {
		return
	}

	owner := c.nodes[i].owner

	c.teardown(i + 1)
	c.nodes[i].releaseHeld()

	c.notify(c.build(i, owner, false))
}

func (c *Chain) propertyChanged(i int) {
	c.rewire(i)
}

func (c *Chain) itemsChanged(i int, ch collection.Change) {
	if ch.Affects(c.path.Segment(i).Index) {
		c.rewire(i)
	}
}

func (c *Chain) notify(err error) {
	if c.disposed || c.onChange == nil {
		return
	}

	c.onChange(err)
}
