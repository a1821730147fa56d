package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databinding/collection"
)

func record(l collection.Observable) *[]collection.Change {
	var got []collection.Change
	l.ObserveChanges(func(c collection.Change) { got = append(got, c) })

	return &got
}

func TestListMutations(t *testing.T) {
	l := collection.NewList("a", "b")
	changes := record(l)

	l.Append("c")
	require.NoError(t, l.Insert(0, "z"))
	require.NoError(t, l.Set(1, "A"))
	require.NoError(t, l.Set(1, "A"))
	v, err := l.DeleteAt(0)
	require.NoError(t, err)
	assert.Equal(t, "z", v)

	assert.Equal(t, []string{"A", "b", "c"}, l.Items())
	assert.Equal(t, []collection.Change{
		{Op: collection.OpInsert, Index: 2, Count: 1},
		{Op: collection.OpInsert, Index: 0, Count: 1},
		{Op: collection.OpSet, Index: 1, Count: 1},
		{Op: collection.OpDelete, Index: 0, Count: 1},
	}, *changes)
}

func TestListSetGrows(t *testing.T) {
	var l collection.List[string]
	changes := record(&l)

	require.NoError(t, l.Set(1, "Bob"))

	assert.Equal(t, []string{"", "Bob"}, l.Items())
	assert.Equal(t, []collection.Change{{Op: collection.OpSet, Index: 0, Count: 2}}, *changes)
}

func TestListDeleteByValue(t *testing.T) {
	l := collection.NewList(1, 2, 1, 3)
	changes := record(l)

	assert.Equal(t, 2, l.Delete(1))
	assert.Zero(t, l.Delete(7))
	assert.Equal(t, []int{2, 3}, l.Items())
	assert.Equal(t, []collection.Change{{Op: collection.OpDelete, Index: 0, Count: -1}}, *changes)
}

func TestListClearAndReplace(t *testing.T) {
	l := collection.NewList(1, 2)
	changes := record(l)

	l.Replace([]int{1, 2})
	l.Clear()
	l.Clear()
	l.Replace([]int{4})

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, []collection.Change{
		{Op: collection.OpClear, Index: 0, Count: -1},
		{Op: collection.OpReplace, Index: 0, Count: -1},
	}, *changes)
}

func TestListReplaceWithEqualContents(t *testing.T) {
	type item struct{ Name string }

	old := &item{Name: "same"}
	l := collection.NewList(old)
	changes := record(l)

	fresh := &item{Name: "same"}
	l.Replace([]*item{fresh})

	got, ok := l.At(0)
	require.True(t, ok)
	assert.Same(t, fresh, got)
	assert.Len(t, *changes, 1)

	l.Replace([]*item{fresh})
	assert.Len(t, *changes, 1)
}

func TestListBounds(t *testing.T) {
	l := collection.NewList(1)

	_, ok := l.At(3)
	assert.False(t, ok)
	_, err := l.DeleteAt(1)
	assert.ErrorIs(t, err, collection.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Insert(5, 1), collection.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Set(-1, 1), collection.ErrIndexOutOfRange)
	assert.Equal(t, -1, l.Index(9))
}

func TestListSequence(t *testing.T) {
	l := collection.NewList(1, 2)

	var seq collection.Sequence = l
	require.NoError(t, seq.SetAt(0, "41"))
	require.NoError(t, seq.SetAt(1, nil))

	v, ok := seq.ValueAt(0)
	require.True(t, ok)
	assert.Equal(t, 41, v)
	assert.Equal(t, []int{41, 0}, l.Items())
	assert.Error(t, seq.SetAt(0, "forty"))
}

func TestListObservers(t *testing.T) {
	l := collection.NewList[int]()
	calls := 0

	sub := l.ObserveChanges(func(collection.Change) { calls++ })
	assert.Equal(t, 1, l.ObserverCount())

	l.Append(1)
	sub.Cancel()
	sub.Cancel()
	l.Append(2)

	assert.Equal(t, 1, calls)
	assert.Zero(t, l.ObserverCount())
}

func TestChangeAffects(t *testing.T) {
	tests := []struct {
		change collection.Change
		index  int
		want   bool
	}{
		{collection.Change{Op: collection.OpSet, Index: 1, Count: 1}, 0, false},
		{collection.Change{Op: collection.OpSet, Index: 1, Count: 1}, 1, true},
		{collection.Change{Op: collection.OpSet, Index: 1, Count: 1}, 2, false},
		{collection.Change{Op: collection.OpSet, Index: 1, Count: 3}, 3, true},
		{collection.Change{Op: collection.OpInsert, Index: 2, Count: 1}, 1, false},
		{collection.Change{Op: collection.OpInsert, Index: 2, Count: 1}, 5, true},
		{collection.Change{Op: collection.OpDelete, Index: 0, Count: 1}, 3, true},
		{collection.Change{Op: collection.OpClear, Index: 0, Count: -1}, 0, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.change.Affects(tt.index), tt.change.String())
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "Insert", collection.OpInsert.String())
	assert.Equal(t, "Op(9)", collection.Op(9).String())
	assert.Equal(t, "Delete@0+-1", collection.Change{Op: collection.OpDelete, Count: -1}.String())
}
