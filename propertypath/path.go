package propertypath

import (
	"slices"
	"strconv"
	"strings"

	"databinding/internal/common"
)

// Segment is one step of a Path: a property name, optionally followed by an
// index into the collection the property holds.
type Segment struct {
	Name     string
	Index    int
	HasIndex bool
}

func (s Segment) String() string {
	if !s.HasIndex {
		return s.Name
	}

	return s.Name + "[" + strconv.Itoa(s.Index) + "]"
}

// Path is an immutable, non-empty sequence of segments. The zero Path has no
// segments and is only produced by failed parses.
type Path struct {
	segments []Segment
}

// New builds a Path from segments.
func New(segments ...Segment) Path {
	return Path{segments: slices.Clone(segments)}
}

// String returns the path in its textual form.
func (p Path) String() string {
	var sb strings.Builder

	for i, seg := range p.segments {
		if i > 0 {
			sb.WriteString(".")
		}

		sb.WriteString(seg.String())
	}

	return sb.String()
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segment returns the i-th segment.
func (p Path) Segment(i int) Segment {
	return p.segments[i]
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	return slices.Clone(p.segments)
}

// Prefix returns the path made of the first n segments.
func (p Path) Prefix(n int) Path {
	return Path{segments: p.segments[:n:n]}
}

// Last returns the terminal segment.
func (p Path) Last() Segment {
	last, _ := common.Last(p.segments)
	return last
}

// IsZero reports whether the path has no segments.
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}

// Equal reports whether two paths have the same segments.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// Parse parses expr with the grammar
//
//	path    = segment { "." segment }
//	segment = name [ "[" index "]" ]
//
// where name is an identifier and index a non-negative integer literal.
func Parse(expr string) (Path, error) {
	if expr == "" {
		return Path{}, &InvalidPathError{Expr: expr, Reason: "empty path"}
	}

	p := parser{expr: expr}

	var segments []Segment

	for {
		seg, err := p.segment()
		if err != nil {
			return Path{}, err
		}

		segments = append(segments, seg)

		if p.done() {
			return Path{segments: segments}, nil
		}

		if p.peek() != '.' {
			return Path{}, p.fail("unexpected character %q", p.peek())
		}

		p.pos++
	}
}

// MustParse is like Parse but panics on a malformed expression.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}

	return p
}

// ParseAll parses every expression, stopping at the first error.
func ParseAll(exprs []string) ([]Path, error) {
	result := make([]Path, 0, len(exprs))

	for _, e := range exprs {
		p, err := Parse(e)
		if err != nil {
			return nil, err
		}

		result = append(result, p)
	}

	return result, nil
}

type parser struct {
	expr string
	pos  int
}

func (p *parser) done() bool {
	return p.pos >= len(p.expr)
}

func (p *parser) peek() byte {
	return p.expr[p.pos]
}

func (p *parser) fail(format string, args ...any) *InvalidPathError {
	return newInvalidPathError(p.expr, p.pos, format, args...)
}

func (p *parser) segment() (Segment, error) {
	start := p.pos

	for !p.done() {
		c := p.peek()
		if !isLetter(c) && c != '_' && (p.pos == start || !isDigit(c)) {
			break
		}

		p.pos++
	}

	if p.pos == start {
		if p.done() {
			return Segment{}, p.fail("expected property name at end of path")
		}

		return Segment{}, p.fail("expected property name, found %q", p.peek())
	}

	seg := Segment{Name: p.expr[start:p.pos]}

	if p.done() || p.peek() != '[' {
		return seg, nil
	}

	p.pos++
	digits := p.pos

	for !p.done() && isDigit(p.peek()) {
		p.pos++
	}

	if p.pos == digits {
		return Segment{}, p.fail("expected non-negative integer index")
	}

	idx, err := strconv.Atoi(p.expr[digits:p.pos])
	if err != nil {
		return Segment{}, newInvalidPathError(p.expr, digits, "index out of range")
	}

	if p.done() || p.peek() != ']' {
		return Segment{}, p.fail("expected ']'")
	}

	p.pos++
	seg.Index, seg.HasIndex = idx, true

	return seg, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
