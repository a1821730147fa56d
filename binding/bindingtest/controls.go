// Package bindingtest provides in-memory controls for exercising bindings
// without a UI toolkit.
package bindingtest

import (
	"sync"

	"databinding/property"
)

// Lifecycle is an embeddable dispose lifecycle. The zero value is live.
type Lifecycle struct {
	mu        sync.Mutex
	disposed  bool
	disposers []func()
}

// OnDispose registers cleanup to run when Dispose is called and returns a
// function removing the registration. On an already disposed value cleanup
// runs immediately.
func (l *Lifecycle) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	l.mu.Lock()

	if l.disposed {
		l.mu.Unlock()
		cleanup()

		return func() {}
	}

	index := len(l.disposers)
	l.disposers = append(l.disposers, cleanup)
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		if index < len(l.disposers) {
			l.disposers[index] = nil
		}
	}
}

// Dispose runs the registered cleanups, last registered first. Later calls
// do nothing.
func (l *Lifecycle) Dispose() {
	l.mu.Lock()

	if l.disposed {
		l.mu.Unlock()
		return
	}

	l.disposed = true
	disposers := l.disposers
	l.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		if disposers[i] != nil {
			disposers[i]()
		}
	}

	l.mu.Lock()
	l.disposers = nil
	l.mu.Unlock()
}

// IsDisposed reports whether Dispose was called.
func (l *Lifecycle) IsDisposed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.disposed
}

// DisposerCount returns the number of live cleanup registrations.
func (l *Lifecycle) DisposerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, d := range l.disposers {
		if d != nil {
			n++
		}
	}

	return n
}

// Control is the base of the observable test controls.
type Control struct {
	property.Model
	Lifecycle

	enabled bool
}

func (c *Control) Enabled() bool { return c.enabled }

func (c *Control) SetEnabled(v bool) { property.Update(&c.Model, "enabled", &c.enabled, v) }

// Text is a single-line text field.
type Text struct {
	Control

	text string
}

func (t *Text) Text() string { return t.text }

func (t *Text) SetText(v string) { property.Update(&t.Model, "text", &t.text, v) }

// Type simulates the user editing the field.
func (t *Text) Type(v string) { t.SetText(v) }

// Check is a check box or radio button.
type Check struct {
	Control

	selection bool
}

func (c *Check) Selection() bool { return c.selection }

func (c *Check) SetSelection(v bool) { property.Update(&c.Model, "selection", &c.selection, v) }

// Spinner is a numeric spinner.
type Spinner struct {
	Control

	selection int
}

func (s *Spinner) Selection() int { return s.selection }

func (s *Spinner) SetSelection(v int) { property.Update(&s.Model, "selection", &s.selection, v) }

// Label displays text and never reports edits.
type Label struct {
	Lifecycle

	Text string
}
