// Package binding keeps a property of a model object graph in sync with a
// property of a UI control.
//
// A binding is declared in two steps, mirroring how a UI DSL reads:
//
//	spec, err := binding.Bind(person, "addresses[1].street", binding.Options{})
//	b, err := binding.Attach(spec, streetField, "text")
//
// Bind validates the declaration; Attach observes every link of the path,
// pushes the current value into the control and, for bidirectional bindings,
// writes control edits back into the model.
package binding
