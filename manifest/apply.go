package manifest

import (
	"fmt"

	"databinding/binding"
)

// MissingTargetError reports an entry whose target is absent from the map
// passed to Apply.
type MissingTargetError struct {
	Target string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("no target named %q", e.Target)
}

// Apply validates mf and attaches every entry to model and the named targets.
// base supplies the options shared by all entries. On failure every binding
// already attached is disposed.
func Apply(mf *File, model any, targets map[string]any, base binding.Options) (*binding.Group, error) {
	if diags := Validate(mf, base.Registry); diags.HasErrors() {
		return nil, fmt.Errorf("invalid manifest: %w", diags.Error())
	}

	g := &binding.Group{}

	for i := range mf.Bindings {
		if err := apply(g, &mf.Bindings[i], model, targets, base); err != nil {
			g.Dispose()
			return nil, err
		}
	}

	return g, nil
}

func apply(g *binding.Group, e *Entry, model any, targets map[string]any, base binding.Options) error {
	target, ok := targets[e.Target]
	if !ok {
		return fmt.Errorf("binding %s: %w", e.Name(), &MissingTargetError{Target: e.Target})
	}

	opts, err := e.Options(base)
	if err != nil {
		return fmt.Errorf("binding %s: %w", e.Name(), err)
	}

	spec, err := binding.Bind(model, e.Path, opts)
	if err != nil {
		return fmt.Errorf("binding %s: %w", e.Name(), err)
	}

	if _, err := g.Attach(spec, target, e.Property); err != nil {
		return fmt.Errorf("binding %s: %w", e.Name(), err)
	}

	return nil
}
