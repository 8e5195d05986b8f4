package cfix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyVisitsEveryEntryExactlyOnce(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	want := map[uint32]bool{}
	for i := uint32(0); i < 500; i++ {
		tb.Insert(i, []uint32{i, 0})
		want[i] = true
	}
	tb.Insert(Inf, []uint32{1, 1})
	want[Inf] = true

	seen := map[uint32]bool{}
	tb.Apply(func(key uint32, data []uint32) {
		require.False(t, seen[key], "key %d visited twice", key)
		seen[key] = true
	})
	require.Equal(t, want, seen)
}

func TestApplyPanicsIfCallbackMutatesTable(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()
	tb.Insert(1, []uint32{0, 0})
	tb.Insert(2, []uint32{0, 0})

	require.Panics(t, func() {
		tb.Apply(func(key uint32, data []uint32) {
			tb.Insert(key+1000, []uint32{0, 0})
		})
	})
}

func TestApplyCallbackDataMutationDoesNotAffectTable(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()
	tb.Insert(1, []uint32{9, 9})

	tb.Apply(func(key uint32, data []uint32) {
		data[0] = 0
	})

	got, ok := tb.Lookup(1)
	require.True(t, ok)
	require.Equal(t, []uint32{9, 9}, got)
}

func TestIteratorWalksAllEntries(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	inserted := map[uint32]bool{}
	for i := uint32(0); i < 300; i++ {
		tb.Insert(i, []uint32{i, 0})
		inserted[i] = true
	}
	tb.Insert(Inf, []uint32{0, 0})
	inserted[Inf] = true

	it := tb.Iterator()
	visited := map[uint32]bool{}
	for {
		key, _, status := it.Current()
		if status == IterEnd {
			break
		}
		require.Equal(t, IterOK, status)
		visited[key] = true
		if it.Forward() == IterEnd {
			break
		}
	}
	require.Equal(t, inserted, visited)
}

func TestIteratorInvalidatedByMutation(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()
	tb.Insert(1, []uint32{0, 0})

	it := tb.Iterator()
	tb.Insert(2, []uint32{0, 0})

	_, _, status := it.Current()
	require.Equal(t, IterInvalidated, status)
	require.Equal(t, IterInvalidated, it.Forward())
}

func TestIteratorResetReArmsAfterInvalidation(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()
	tb.Insert(1, []uint32{0, 0})

	it := tb.Iterator()
	tb.Insert(2, []uint32{0, 0})
	it.Reset()

	_, _, status := it.Current()
	require.Equal(t, IterOK, status)
}

func TestIteratorOnEmptyTableEndsImmediately(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	it := tb.Iterator()
	_, _, status := it.Current()
	require.Equal(t, IterEnd, status)
	require.Equal(t, IterEnd, it.Forward())
}
