package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics holds every diagnostic produced by one validation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this kind of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Binding names the declaration this relates to (if any).
	Binding string
	// Path is the property path this relates to (if any).
	Path string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func (d *Diagnostics) add(sev Severity, code, message, binding, path string, suggestions []string) {
	diag := Diagnostic{
		Severity:    sev,
		Code:        code,
		Message:     message,
		Binding:     binding,
		Path:        path,
		Suggestions: suggestions,
	}

	switch sev {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, binding, path string, suggestions ...string) {
	d.add(SeverityError, code, message, binding, path, suggestions)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, binding, path string, suggestions ...string) {
	d.add(SeverityWarning, code, message, binding, path, suggestions)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, binding, path string) {
	d.add(SeverityInfo, code, message, binding, path, nil)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns errors, warnings and infos, in that order.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// Codes returns the codes of the error diagnostics.
func (d *Diagnostics) Codes() []string {
	codes := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		codes = append(codes, e.Code)
	}

	return codes
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Binding != "" {
		prefix = append(prefix, "["+d.Binding+"]")
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
