package collection

import (
	"fmt"

	"databinding/utils"
)

//go:generate go tool stringer -type=Op -trimprefix=Op

// Op identifies the kind of structural mutation.
type Op int

const (
	OpSet Op = iota + 1
	OpInsert
	OpDelete
	OpClear
	OpReplace
)

// Change describes one structural mutation. Positions Index through
// Index+Count-1 were affected; a negative Count means through the end.
type Change struct {
	Op    Op
	Index int
	Count int
}

// Affects reports whether the value at position i may differ after the
// change. Inserts and deletes shift every later element.
func (c Change) Affects(i int) bool {
	if i < c.Index {
		return false
	}

	switch c.Op {
	case OpInsert, OpDelete, OpClear, OpReplace:
		return true
	}

	if c.Count < 0 {
		return true
	}

	return utils.IsInRange(c.Index, i, c.Index+c.Count-1)
}

func (c Change) String() string {
	return fmt.Sprintf("%v@%d+%d", c.Op, c.Index, c.Count)
}
