package propertypath

import (
	"fmt"
	"reflect"
)

// InvalidPathError reports a malformed path expression. Pos is the byte
// offset at which parsing failed.
type InvalidPathError struct {
	Expr   string
	Pos    int
	Reason string
}

func newInvalidPathError(expr string, pos int, format string, args ...any) *InvalidPathError {
	return &InvalidPathError{Expr: expr, Pos: pos, Reason: fmt.Sprintf(format, args...)}
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q at offset %d: %s", e.Expr, e.Pos, e.Reason)
}

// UnsupportedIndexError reports an index applied to a value that is not a
// sequence.
type UnsupportedIndexError struct {
	Type  reflect.Type
	Index int
}

func (e *UnsupportedIndexError) Error() string {
	return fmt.Sprintf("cannot index %v with [%d]", e.Type, e.Index)
}

// ResolveError reports a failure reading one segment of a path.
type ResolveError struct {
	Path  Path
	Depth int
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s at %s: %v", e.Path, e.Path.Segment(e.Depth), e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
