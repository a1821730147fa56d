package manifest

import (
	"errors"
	"fmt"

	"databinding/binding"
	"databinding/convert"
	"databinding/internal/diagnostic"
	"databinding/propertypath"
)

// Validate checks a manifest without touching any model. registry resolves
// value kinds; convert.Default when nil.
func Validate(mf *File, registry *convert.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("manifest_is_nil", "manifest is nil", "", "")
		return res
	}

	if registry == nil {
		registry = convert.Default
	}

	if mf.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported manifest version %q", mf.Version), "", "")
	}

	if len(mf.Bindings) == 0 {
		res.AddWarning("no_bindings", "manifest declares no bindings", "", "")
	}

	seen := map[string]struct{}{}

	for i := range mf.Bindings {
		e := &mf.Bindings[i]
		name := e.Name()

		if e.Target == "" {
			res.AddError("missing_target", fmt.Sprintf("binding #%d has no target", i+1), "", e.Path)
		} else if _, ok := seen[name]; ok {
			res.AddError("duplicate_binding", fmt.Sprintf("duplicate binding of %s", name), name, e.Path)
		} else {
			seen[name] = struct{}{}
		}

		validateEntry(res, registry, name, e)
	}

	return res
}

func validateEntry(res *diagnostic.Diagnostics, registry *convert.Registry, name string, e *Entry) {
	if e.Path == "" {
		res.AddError("missing_path", "path is required", name, "")
	} else if _, err := propertypath.Parse(e.Path); err != nil {
		res.AddError("invalid_path", err.Error(), name, e.Path)
	}

	for _, dep := range e.ComputedBy {
		if _, err := propertypath.Parse(dep); err != nil {
			res.AddError("invalid_computed_by", err.Error(), name, dep)
		}
	}

	if _, err := registry.Lookup(e.Kind); err != nil {
		msg := fmt.Sprintf("unknown value kind %q", e.Kind)

		var uke *convert.UnknownKindError
		if errors.As(err, &uke) && uke.Suggestion != "" {
			res.AddError("unknown_kind", msg, name, e.Path, uke.Suggestion)
		} else {
			res.AddError("unknown_kind", msg, name, e.Path)
		}
	}

	dir, err := ParseDirection(e.Direction)
	if err != nil {
		res.AddError("invalid_direction", err.Error(), name, e.Path)
		return
	}

	if dir == binding.Bidirectional && !e.ComputedBy.IsEmpty() {
		res.AddError("computed_bidirectional", binding.ErrComputedBidirectional.Error(), name, e.Path)
	}

	if !e.ComputedBy.IsEmpty() && dir == binding.DirectionDefault {
		res.AddInfo("computed_read_only", "computed binding flows model to target only", name, e.Path)
	}
}
